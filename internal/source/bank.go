package source

import "github.com/tadabbur/tadabbur/internal/feed"

// curatedBank is the built-in reflection bank, ordered as served.
// Entries with full text are short-form complete and skip hydration.
var curatedBank = []entry{
	{
		kind:  feed.KindVerse,
		title: "With Hardship, Ease",
		short: "\"For indeed, with hardship comes ease. Indeed, with hardship comes ease.\" (Quran 94:5-6). The repetition is the promise: no difficulty arrives alone.",
		full: "\"For indeed, with hardship comes ease. Indeed, with hardship comes ease.\" (Quran 94:5-6)\n\n" +
			"The verse does not say ease comes *after* hardship but *with* it. The two travel together, " +
			"even when only one of them is visible. Scholars have long noted the Arabic here: the hardship " +
			"is mentioned with the definite article, the ease without it, as if to say the hardship is one " +
			"and the eases are many.\n\nWhat difficulty are you carrying today that might already have its " +
			"companion walking beside it, unnoticed?",
	},
	{
		kind:  feed.KindNarration,
		title: "The Most Beloved Deeds",
		short: "The Prophet ﷺ said: \"The most beloved of deeds to Allah are those that are most consistent, even if small.\" (Bukhari, Muslim). Consistency outweighs intensity.",
	},
	{
		kind:  feed.KindNature,
		title: "The Night Rain",
		short: "Rain falls the same on every rooftop, asking nothing of anyone below. Provision arrives before the request. Listen to it tonight as a reminder, not a sound.",
	},
	{
		kind:  feed.KindPrompt,
		title: "One Honest Minute",
		short: "Before you sleep tonight, ask: what did I do today that I would be glad to meet again? Write a single sentence. No one else will read it.",
		full: "Before you sleep tonight, give yourself one honest minute.\n\nAsk: what did I do today that I " +
			"would be glad to meet again? Not the longest task or the loudest one, but the deed you would " +
			"choose to have recorded. Write a single sentence about it. No one else will read it.\n\nThe " +
			"early Muslims called this *muhasaba*, taking account of the self before the self is taken to " +
			"account. It works not through severity but through regularity: one minute, every night, kept " +
			"small enough that you never skip it.\n\nWhat sentence will you write tonight?",
	},
	{
		kind:  feed.KindProphecy,
		title: "The Patience of Ta'if",
		short: "Stoned and bleeding at Ta'if, offered vengeance, he asked instead for the city's descendants. Mercy, at the moment it cost the most.",
	},
	{
		kind:  feed.KindStory,
		title: "Uwais al-Qarani",
		short: "The Prophet ﷺ told Umar of a man in Yemen whose supplication would be accepted, known in the heavens, unknown on earth: Uwais, who stayed home to care for his mother.",
	},
	{
		kind:  feed.KindVerse,
		title: "Remember Me",
		short: "\"So remember Me; I will remember you.\" (Quran 2:152). The shortest covenant in the Book: one act, answered in kind, from the One who never forgets.",
	},
	{
		kind:  feed.KindNarration,
		title: "A Smile is Charity",
		short: "\"Do not belittle any good deed, even meeting your brother with a cheerful face.\" (Muslim). The smallest sadaqa is the one always within reach.",
	},
	{
		kind:  feed.KindNature,
		title: "Roots Before Branches",
		short: "A tree spends its first seasons growing downward, unseen. The strength of what shows was decided by what didn't. So it is with the heart's quiet habits.",
	},
	{
		kind:  feed.KindPrompt,
		title: "Who Carried You",
		short: "Name one person who made this week lighter for you. Have you asked anything good for them in their absence? The unseen du'a is the most sincere gift.",
	},
	{
		kind:  feed.KindProphecy,
		title: "The Mender of Sandals",
		short: "Asked what the Prophet ﷺ did at home, Aisha said: he served his family, mended his sandals, patched his garment. Greatness kept no distance from small work.",
	},
	{
		kind:  feed.KindStory,
		title: "The Baker of Basra",
		short: "A baker in Basra gave his dawn loaves to whoever could not pay, saying only: the oven was lit before the customers came, and so was the provision.",
	},
	{
		kind:  feed.KindVerse,
		title: "No Burden Beyond Capacity",
		short: "\"Allah does not burden a soul beyond that it can bear.\" (Quran 2:286). The load you carry is, by decree, a load you can carry.",
	},
	{
		kind:  feed.KindNarration,
		title: "Wonder of the Believer",
		short: "\"Amazing is the affair of the believer: all of it is good. If ease reaches him he is grateful, and if harm reaches him he is patient.\" (Muslim).",
	},
	{
		kind:  feed.KindNature,
		title: "The Ant's Portion",
		short: "No ant has ever hoarded another's share, and none has gone unfed. The smallest creatures keep the oldest trust: strive, carry, and leave the outcome.",
	},
	{
		kind:  feed.KindPrompt,
		title: "The Unsent Reply",
		short: "Recall the last time you held back a sharp answer. What did the silence cost you, and what did it buy? Patience in speech is fasting of the tongue.",
	},
	{
		kind:  feed.KindStory,
		title: "The Judge Who Walked Home",
		short: "Offered an escort and a stipend, the judge walked home alone each night, saying: a heart that needs the court's honor will soon bend the court's justice.",
	},
	{
		kind:  feed.KindProphecy,
		title: "First Revelation, First Comfort",
		short: "Trembling from the cave, he was wrapped in a cloak and told by Khadija: never will Allah disgrace you, for you keep ties and carry the weak. Comfort preceded commission.",
	},
}
