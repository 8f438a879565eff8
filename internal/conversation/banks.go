// Package conversation implements the reply pipeline: the canned
// phrase banks, the file-backed learned-response table, and the
// fallback-chained resolver that turns an inbound message into exactly
// one reply.
package conversation

import (
	"strings"

	"github.com/vamshik/iplbot/internal/textutil"
)

// BankKind selects one of the canned phrase banks.
type BankKind int

const (
	BankNone BankKind = iota
	BankGreeting
	BankFarewell
	BankThanks
	BankFallback
)

// Banks holds the canned keyword sets and phrase banks. The keyword
// sets mix both scripts so a Telugu greeting matches regardless of the
// target reply language; the phrase banks are per-language.
type Banks struct {
	greetingKeywords []string
	farewellKeywords []string
	thanksKeywords   []string

	phrases map[textutil.Language]map[BankKind][]string
}

// NewBanks returns the bundled conversation banks.
func NewBanks() *Banks {
	return &Banks{
		greetingKeywords: []string{"hello", "hi", "hey", "namaste", "నమస్కారం", "హలో"},
		farewellKeywords: []string{"bye", "goodbye", "see you", "వీడ్కోలు", "బై"},
		thanksKeywords:   []string{"thanks", "thank you", "ధన్యవాదాలు", "థాంక్స్"},

		phrases: map[textutil.Language]map[BankKind][]string{
			textutil.LanguageEnglish: {
				BankGreeting: {
					"Hello! How can I help you with IPL information today?",
					"Hi there! I'm your IPL assistant. What would you like to know?",
					"Greetings! Ask me anything about IPL!",
					"Hello! Ready to talk about cricket and IPL?",
				},
				BankFarewell: {
					"Goodbye! Feel free to come back for more IPL info!",
					"See you later! Enjoy the IPL matches!",
					"Bye! Have a great day!",
					"Until next time! Keep supporting your favorite IPL team!",
				},
				BankThanks: {
					"You're welcome! Anything else you'd like to know about IPL?",
					"Happy to help! Any other IPL questions?",
					"My pleasure! I'm here for all your IPL needs!",
					"No problem at all! Feel free to ask more about IPL!",
				},
				BankFallback: {
					"I'm not sure I understand. Could you ask about IPL in a different way?",
					"I'm still learning. Can you rephrase your question about IPL?",
					"I didn't quite catch that. Try asking something specific about IPL teams, players, or matches.",
					"Sorry, I'm not sure how to answer that. I'm best at answering questions about IPL!",
				},
			},
			textutil.LanguageTelugu: {
				BankGreeting: {
					"నమస్కారం! నేను మీకు IPL సమాచారంతో ఎలా సహాయపడగలను?",
					"హలో! నేను మీ IPL సహాయకుడిని. మీరు ఏమి తెలుసుకోవాలనుకుంటున్నారు?",
					"శుభోదయం! IPL గురించి నన్ను ఏదైనా అడగండి!",
					"నమస్తే! క్రికెట్ మరియు IPL గురించి మాట్లాడటానికి సిద్ధంగా ఉన్నాను!",
				},
				BankFarewell: {
					"వీడ్కోలు! మరింత IPL సమాచారం కోసం తిరిగి రావడానికి సంకోచించకండి!",
					"తరువాత కలుద్దాం! IPL మ్యాచ్‌లను ఆస్వాదించండి!",
					"బై! శుభదినం కలగాలని కోరుకుంటున్నాను!",
					"మళ్ళీ కలుద్దాం! మీ అభిమాన IPL జట్టుకు మద్దతు ఇవ్వడం కొనసాగించండి!",
				},
				BankThanks: {
					"స్వాగతం! IPL గురించి మరేమైనా తెలుసుకోవాలనుకుంటున్నారా?",
					"సహాయం చేయడం సంతోషం! ఇతర IPL ప్రశ్నలు ఏమైనా ఉన్నాయా?",
					"నా ఆనందం! నేను మీ అన్ని IPL అవసరాల కోసం ఇక్కడ ఉన్నాను!",
					"అస్సలు సమస్య లేదు! IPL గురించి మరింత అడగడానికి సంకోచించకండి!",
				},
				BankFallback: {
					"నేను అర్థం చేసుకోలేకపోతున్నాను. మీరు IPL గురించి వేరే విధంగా అడగగలరా?",
					"నేను ఇంకా నేర్చుకుంటున్నాను. మీరు మీ IPL ప్రశ్నను మరోలా అడగగలరా?",
					"నేను దానిని పట్టుకోలేదు. IPL జట్లు, ఆటగాళ్లు లేదా మ్యాచ్‌ల గురించి నిర్దిష్టంగా ఏదైనా అడగడానికి ప్రయత్నించండి.",
					"క్షమించండి, నేను ఎలా సమాధానం ఇవ్వాలో నాకు తెలియదు. నేను IPL గురించి ప్రశ్నలకు సమాధానం ఇవ్వడంలో మంచివాడిని!",
				},
			},
		},
	}
}

// Classify reports which canned bank the text belongs to, checking
// greeting, farewell, and thanks keyword sets in that order. Keywords
// match on word boundaries of the normalized text so names like
// "kohli" do not trip the "hi" greeting. BankNone means the text
// matched no conversational keyword.
func (b *Banks) Classify(text string) BankKind {
	joined := " " + textutil.Normalize(text) + " "

	contains := func(keywords []string) bool {
		for _, kw := range keywords {
			if strings.Contains(joined, " "+kw+" ") {
				return true
			}
		}
		return false
	}

	switch {
	case contains(b.greetingKeywords):
		return BankGreeting
	case contains(b.farewellKeywords):
		return BankFarewell
	case contains(b.thanksKeywords):
		return BankThanks
	}
	return BankNone
}

// Phrases returns the phrase bank for the kind and language. Unknown
// languages fall back to English.
func (b *Banks) Phrases(kind BankKind, language textutil.Language) []string {
	byKind, ok := b.phrases[language]
	if !ok {
		byKind = b.phrases[textutil.LanguageEnglish]
	}
	return byKind[kind]
}
