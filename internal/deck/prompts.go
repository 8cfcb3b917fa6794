package deck

// Static prompt tables for the non-action ranks of each suit. The deck build
// is fully deterministic given these tables.

var spadesPrompts = map[Rank]string{
	King:  "If you could give a speech to the leaders of your industry today, what truth would you want them to hear?",
	Queen: "How could your future career be used to serve or \"bless\" your community back home one day?",
	Jack:  "What does \"success\" look like to your parents, and how does that compare to your own definition?",
	Ten:   "When you return home, what is the first \"big problem\" you hope your new expertise will help solve?",
	Nine:  "Is there someone you are hoping to connect with professionally right now? How can we help?",
	Eight: "Who is a leader from your home country that you would want to introduce to your American friends?",
	Seven: "If visas and paperwork weren't an issue, what would be your \"dream first step\" after graduation?",
	Six:   "What is a strength you've discovered in yourself only after moving to a different country?",
	Five:  "How do your personal values or faith change the kind of company you'd be willing to work for?",
	Four:  "What is the most surprising difference between an interview back home vs. an interview here?",
	Three: "What's the hardest part about translating your life story into a one-page U.S. resume?",
	Two:   "What was your very first \"dream job\" when you were a child?",
}

var heartsPrompts = map[Rank]string{
	King:  "What is a tradition from your family that you hope to pass on to your own children one day?",
	Queen: "If you could \"teleport\" one person from home to sit at this table for an hour, who would it be?",
	Jack:  "What makes a place feel like \"home\" to you—is it the people, the smells, or a feeling?",
	Ten:   "In what specific way do you want to be a blessing to your \"household\" (oikos) right now?",
	Nine:  "What is the most \"un-homelike\" thing about living in an American dorm or apartment?",
	Eight: "How can friends here best support you when you are feeling the \"weight\" of being away?",
	Seven: "What is a childhood story or \"fable\" your parents told you that you'll never forget?",
	Six:   "How do people in your country usually welcome a stranger into their home?",
	Five:  "If I were to pray for your family today, what is the \"big hope\" or \"big worry\" on their hearts?",
	Four:  "Who in your family was your biggest champion in getting you here? What did they sacrifice?",
	Three: "What is a \"ritual\" from home (like making tea) that you keep alive here?",
	Two:   "What is the first thing you want to eat the moment you land in your home country?",
}

var diamondsPrompts = map[Rank]string{
	King:  "What does \"Honor\" mean to you, and how do you show it in a culture that feels \"informal\"?",
	Queen: "How does your community back home celebrate the biggest milestones of life?",
	Jack:  "How do you decide which parts of American culture to \"adopt\" and which to \"reject\"?",
	Ten:   "What do people here often get wrong about your culture that you'd love to correct?",
	Nine:  "How does your family's faith or worldview shape the way you handle conflict?",
	Eight: "What's a historical event from your nation that you wish every American knew about?",
	Seven: "In your culture, who is considered a \"hero,\" and what does that tell us about your values?",
	Six:   "What is the \"Good Life\"? What kind of music or songs make you think of it?",
	Five:  "How has being in the U.S. changed the way you look at your own home country?",
	Four:  "If you could give every American one childhood \"memory\" to help them understand your culture, what would it be?",
	Three: "What is a piece of \"grandmotherly wisdom\" or a proverb you think about when life gets hard?",
	Two:   "What is one thing Americans do that they think is polite, but feels \"off\" to you?",
}

var clubsPrompts = map[Rank]string{
	King:  "If you could ask the Creator of the Universe one scientific question, what would it be?",
	Queen: "How do you personally balance the \"seen\" physical world with the \"unseen\" spiritual one?",
	Jack:  "In your research, have you ever found a pattern that felt \"too perfect\" to be an accident?",
	Ten:   "If you had unlimited funding to help \"the least of these\" back home using your major, where would you start?",
	Nine:  "What is the toughest ethical choice a scientist in your field has to make?",
	Eight: "Do you find that people at your university treat \"Science\" like it's a religion?",
	Seven: "How could your specific expertise be used as a \"platform\" for doing good globally?",
	Six:   "If the universe was designed by an Artist, what does your field reveal about the Artist's personality?",
	Five:  "Have you ever felt a sense of \"awe\" or \"worship\" while looking at a complex equation or microscope?",
	Four:  "What is the biggest scientific or technical challenge your home country is currently facing?",
	Three: "Do you think science and faith are two different languages, or are they telling the same story?",
	Two:   "What is the most \"beautiful\" or \"elegant\" thing you've learned about the universe lately?",
}

var suitPrompts = map[Suit]map[Rank]string{
	Spades:   spadesPrompts,
	Hearts:   heartsPrompts,
	Diamonds: diamondsPrompts,
	Clubs:    clubsPrompts,
}

type actionSpec struct {
	Type        ActionType
	Description string
}

// actionCards maps each suit's Ace to its table effect.
var actionCards = map[Suit]actionSpec{
	Spades: {
		Type:        ActionReferral,
		Description: "The Referral: Nominate another player to answer a question of your choice from your hand.",
	},
	Hearts: {
		Type:        ActionSharedTable,
		Description: "The Shared Table: Everyone at the table must answer the last question asked.",
	},
	Diamonds: {
		Type:        ActionTranslator,
		Description: "The Translator: Choose a player to explain their answer using a metaphor or a word/phrase from their native language.",
	},
	Clubs: {
		Type:        ActionExperiment,
		Description: "The Experiment: You may \"veto\" a question and draw a new card, or \"challenge\" another player to answer your card instead.",
	},
}
