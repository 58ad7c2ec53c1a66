package survey

// Form-level text shown above the questions.
const (
	Title        = "Diabetes Classification Prediction"
	Instructions = "Follow the instructions to get a prediction"
)

// Shared option sets. The polarity differs between questions and is part of
// the trained model's contract, so each question names its own set.
var (
	yesOne = []Option{{Label: "Yes", Code: 1.0}, {Label: "No", Code: 0.0}}
	noOne  = []Option{{Label: "No", Code: 1.0}, {Label: "Yes", Code: 0.0}}
)

// catalog is the full questionnaire in feature column order.
var catalog = []Question{
	{
		Key:    "general_health",
		Prompt: "Choose the option that best describes your general health:",
		Kind:   KindChoice,
		Options: []Option{
			{Label: "General Health is Excellent", Code: 1.0},
			{Label: "General Health is Very Good", Code: 2.0},
			{Label: "General Health is Good", Code: 3.0},
			{Label: "General Health is Fair", Code: 4.0},
			{Label: "General Health is Poor", Code: 5.0},
		},
	},
	{
		Key:    "physical_health_days",
		Prompt: "Enter how many of the past 30 days your physical health was not good (0 to 30).",
		Kind:   KindNumeric,
		Hint:   &Range{Min: 0, Max: 30},
	},
	{
		Key:    "mental_health_days",
		Prompt: "Enter how many of the past 30 days your mental health was not good (0 to 30).",
		Kind:   KindNumeric,
		Hint:   &Range{Min: 0, Max: 30},
	},
	{
		Key:     "has_health_plan",
		Prompt:  "If you have any form of health insurance, select Yes. If not, select No.",
		Kind:    KindChoice,
		Options: yesOne,
	},
	{
		Key:     "meets_aerobic_guidelines",
		Prompt:  "If you have had physical activity or exercise in the past 30 days other than your job, select Yes. If not, select No.",
		Kind:    KindChoice,
		Options: yesOne,
	},
	{
		Key:    "physical_activity_150min",
		Prompt: "Select the number of minutes of physical activity you had in the past week. 150+ means more than 150 minutes.",
		Kind:   KindChoice,
		Options: []Option{
			{Label: "150+", Code: 1.0},
			{Label: "1-149", Code: 2.0},
			{Label: "0", Code: 3.0},
		},
	},
	{
		Key:     "muscle_strengthening",
		Prompt:  "If you did muscle strengthening exercises at least twice in the past week, select Yes. If not, select No.",
		Kind:    KindChoice,
		Options: yesOne,
	},
	{
		Key:     "high_blood_pressure",
		Prompt:  "Have you ever been told by a health professional that you have high blood pressure?",
		Kind:    KindChoice,
		Options: noOne,
	},
	{
		Key:     "high_cholesterol",
		Prompt:  "Have you ever been told by a health professional that your cholesterol is high?",
		Kind:    KindChoice,
		Options: noOne,
	},
	{
		Key:     "heart_disease",
		Prompt:  "Have you ever had coronary heart disease or a heart attack?",
		Kind:    KindChoice,
		Options: noOne,
	},
	{
		Key:     "lifetime_asthma",
		Prompt:  "Have you ever been told you have asthma?",
		Kind:    KindChoice,
		Options: noOne,
	},
	{
		Key:     "arthritis",
		Prompt:  "Have you ever been told you have some form of arthritis?",
		Kind:    KindChoice,
		Options: noOne,
	},
	{
		Key:    "sex",
		Prompt: "Select your sex at birth.",
		Kind:   KindChoice,
		Options: []Option{
			{Label: "Male", Code: 1.0},
			{Label: "Female", Code: 0.0},
		},
	},
	{
		Key:    "age",
		Prompt: "Enter your age in years (18 to 99).",
		Kind:   KindNumeric,
		Hint:   &Range{Min: 18, Max: 99},
	},
	{
		Key:    "height_inches",
		Prompt: "Enter your height in inches (36 to 95).",
		Kind:   KindNumeric,
		Hint:   &Range{Min: 36, Max: 95},
	},
	{
		Key:    "bmi",
		Prompt: "Enter your body mass index (BMI).",
		Kind:   KindNumeric,
		Hint:   &Range{Min: 12, Max: 70},
	},
	{
		Key:    "education_level",
		Prompt: "Select the highest level of education you have completed.",
		Kind:   KindChoice,
		Options: []Option{
			{Label: "Did not graduate high school", Code: 1.0},
			{Label: "Graduated high school", Code: 2.0},
			{Label: "Attended college or technical school", Code: 3.0},
			{Label: "Graduated from college or technical school", Code: 4.0},
		},
	},
	{
		Key:    "income_group",
		Prompt: "Select your annual household income.",
		Kind:   KindChoice,
		Options: []Option{
			{Label: "income < $15,000", Code: 1.0},
			{Label: "income $15,000 - $24,999", Code: 2.0},
			{Label: "income $25,000 - $34,999", Code: 3.0},
			{Label: "income $35,000 - $49,999", Code: 4.0},
			{Label: "income $50,000 - $99,999", Code: 5.0},
			{Label: "income $100,000 - $199,999", Code: 6.0},
			{Label: "income > $200,000", Code: 7.0},
		},
	},
	{
		Key:    "smoking_status",
		Prompt: "Select the option that best describes your smoking status.",
		Kind:   KindChoice,
		Options: []Option{
			{Label: "Current smoker - now smokes every day", Code: 1.0},
			{Label: "Current smoker - now smokes some days", Code: 2.0},
			{Label: "Former smoker", Code: 3.0},
			{Label: "Never smoked", Code: 4.0},
		},
	},
	{
		Key:     "alcohol_consumption",
		Prompt:  "Have you had at least one drink of alcohol in the past 30 days?",
		Kind:    KindChoice,
		Options: yesOne,
	},
	{
		Key:     "binge_drinking",
		Prompt:  "Have you binge drunk in the past 30 days (5+ drinks for men, 4+ for women on one occasion)?",
		Kind:    KindChoice,
		Options: noOne,
	},
	{
		Key:    "heavy_drinking",
		Prompt: "Are you a heavy drinker (more than 14 drinks per week for men, more than 7 for women)?",
		Kind:   KindChoice,
		// Yes maps to 0 here, unlike the other Yes/No questions.
		Options: []Option{
			{Label: "Yes", Code: 0.0},
			{Label: "No", Code: 1.0},
		},
	},
	{
		Key:     "difficulty_walking",
		Prompt:  "Do you have serious difficulty walking or climbing stairs?",
		Kind:    KindChoice,
		Options: yesOne,
	},
}

// index maps question keys to their position in catalog.
var index = func() map[string]int {
	m := make(map[string]int, len(catalog))
	for i, q := range catalog {
		m[q.Key] = i
	}
	return m
}()

// Questions returns the questionnaire in feature column order. The result is
// a deep copy; mutating it does not affect encoding.
func Questions() []Question {
	out := make([]Question, len(catalog))
	for i, q := range catalog {
		out[i] = clone(q)
	}
	return out
}

// Lookup returns the question with the given key.
func Lookup(key string) (Question, bool) {
	i, ok := index[key]
	if !ok {
		return Question{}, false
	}
	return clone(catalog[i]), true
}

// Len returns the number of questions.
func Len() int { return len(catalog) }

func clone(q Question) Question {
	if q.Options != nil {
		q.Options = append([]Option(nil), q.Options...)
	}
	if q.Hint != nil {
		h := *q.Hint
		q.Hint = &h
	}
	return q
}
