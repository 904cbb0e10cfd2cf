package notifications

// coachMessage is the canned prompt for a window type
type coachMessage struct {
	Message string
	Action  string
}

// coachMessages holds the proactive coaching copy per window type. The
// summary body is generated dynamically from the day's logged data.
var coachMessages = map[string]coachMessage{
	TypeWeight: {
		Message: "Good morning, Melissa. How are you feeling today? Did you get a chance to weigh in yet? Fun gut fact: While you were sleeping, your hypothalamus and gut microbiome were doing their reset magic. Morning weight gives us the cleanest read on how your body's responding. Drop your number here and I'll track it for you. One tiny habit, big fat-burning ripple effect.",
		Action:  "Log weight",
	},
	TypeBreakfast: {
		Message: "What's for breakfast today? If you've already eaten, just let me know what you had and I'll log it. Was your protein around 100g or 150g? And were there any sauces, dressings, or extras added? I can track that for you and provide some insight on your choices. Saw you ate some ingredients off plan. Keep in mind, even small extras can signal your body to shift out of fat-burning mode — so I like to catch them early so we can adjust together. You're doing great.",
		Action:  "Log breakfast + protein",
	},
	TypeLunch: {
		Message: "Lunchtime check-in. What did we serve up? What was the main protein? What was your portion? Closer to 100g or 150g? Any dressings, dips, sauces, oils, or seasoning blends added? No pressure — I'm asking because your body's in a fat-burning groove and I want to keep the reset strong. If these little extras show up more often, I may tag in Coach Hoda for some friendly food tweaks. She's amazing at that.",
		Action:  "Log lunch + flag if trending off-plan",
	},
	TypeMood: {
		Message: "How's your energy and gut feeling this afternoon? Any bloat, cravings, mood dips, or just feeling off? Your gut talks in whispers before it screams — so I listen closely and tweak things early. Just reply with anything that stood out. I'm tracking and adjusting behind the scenes.",
		Action:  "Log mood + digestion",
	},
	TypeDinner: {
		Message: "Dinner time. What's on your plate tonight? If you added anything extra — like a sauce, a little oil, even a seasoning mix — let me know. I won't call the food police. I just want to keep our fat-burning strategy precise. If we've had a few off-plan extras this week, I might loop in Coach Hoda to help your body.",
		Action:  "Log dinner + protein",
	},
	TypeSummary: {
		Action: "Trigger summary + escalation if flagged",
	},
}

const summaryClosing = "If anything's missing, just send it here and I'll fill it in for you. And if meals felt a little off today or you're not seeing the results you expected, we can schedule a quick support call with Coach Hoda. She's amazing at unlocking what your body's asking for. Know you can always text me to help you set up the next available time."
