package types

const (
	FIELD_TYPE_SINGLE_CHOICE   = "single_choice"
	FIELD_TYPE_MULTIPLE_CHOICE = "multiple_choice"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type FieldDefinition struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Options  []Option `json:"options"`
	Reporter bool     `json:"-"` // only filled in by the reporting doctor, never asked from the patient
}

var catalog = []FieldDefinition{
	{
		Key:   FIELD_TIME_TO_ONSET,
		Label: "When did the problem start after taking the medicine?",
		Type:  FIELD_TYPE_SINGLE_CHOICE,
		Options: []Option{
			{"immediate", "Immediately"},
			{"hours", "Within a few hours"},
			{"next_day", "The next day"},
			{"few_days", "After a few days"},
			{"week_plus", "After a week or more"},
		},
	},
	{
		Key:   FIELD_SYMPTOMS,
		Label: "Which symptoms did you notice?",
		Type:  FIELD_TYPE_MULTIPLE_CHOICE,
		Options: []Option{
			{"nausea", "Nausea or vomiting"},
			{"dizziness", "Dizziness"},
			{"rash", "Skin rash or itching"},
			{"headache", "Headache"},
			{"breathing", "Difficulty breathing"},
			{"swelling", "Swelling of face, lips or throat"},
			{"stomach", "Stomach pain or diarrhoea"},
			{"fatigue", "Tiredness"},
			{"other", "Something else"},
		},
	},
	{
		Key:   FIELD_SEVERITY,
		Label: "How strong were the symptoms?",
		Type:  FIELD_TYPE_SINGLE_CHOICE,
		Options: []Option{
			{"mild", "Mild, did not affect daily activities"},
			{"moderate", "Moderate, affected some daily activities"},
			{"severe", "Severe, could not carry out daily activities"},
		},
	},
	{
		Key:      FIELD_SERIOUSNESS,
		Label:    "Reported seriousness",
		Type:     FIELD_TYPE_SINGLE_CHOICE,
		Reporter: true,
		Options: []Option{
			{SERIOUSNESS_SERIOUS, "Serious"},
			{SERIOUSNESS_NON_SERIOUS, "Non-serious"},
		},
	},
	{
		Key:   FIELD_MEDICAL_ATTENTION,
		Label: "Did you need medical help?",
		Type:  FIELD_TYPE_SINGLE_CHOICE,
		Options: []Option{
			{"none", "No"},
			{"doctor", "I visited a doctor"},
			{"emergency", "I went to the emergency room"},
			{"hospital", "I was admitted to hospital"},
		},
	},
	{
		Key:   FIELD_ACTION_TAKEN,
		Label: "What did you do with the medicine?",
		Type:  FIELD_TYPE_SINGLE_CHOICE,
		Options: []Option{
			{"continued", "Kept taking it as prescribed"},
			{"reduced", "Took a lower dose"},
			{"stopped", "Stopped taking it"},
			{"restarted", "Stopped and later started again"},
		},
	},
	{
		Key:   FIELD_OUTCOME,
		Label: "How are you now?",
		Type:  FIELD_TYPE_SINGLE_CHOICE,
		Options: []Option{
			{"resolved", "Fully recovered"},
			{"improved", "Getting better"},
			{"unchanged", "No change"},
			{"worsened", "Getting worse"},
			{"unknown", "Not sure"},
		},
	},
	{
		Key:   FIELD_CONCOMITANT_MEDS,
		Label: "Are you taking other medicines?",
		Type:  FIELD_TYPE_SINGLE_CHOICE,
		Options: []Option{
			{"none", "No other medicines"},
			{"prescription", "Other prescription medicines"},
			{"otc", "Over-the-counter medicines"},
			{"supplements", "Vitamins or supplements"},
			{"multiple", "Several of the above"},
		},
	},
}

// Catalog returns the field definitions in display order.
func Catalog() []FieldDefinition {
	fields := make([]FieldDefinition, len(catalog))
	copy(fields, catalog)
	return fields
}

// PatientQuestions returns the patient-facing definitions for the given field keys, in
// catalog order.
func PatientQuestions(keys []string) []FieldDefinition {
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}
	questions := []FieldDefinition{}
	for _, f := range catalog {
		if f.Reporter || !wanted[f.Key] {
			continue
		}
		questions = append(questions, f)
	}
	return questions
}

func IsAllowedValue(fieldKey string, value string) bool {
	for _, f := range catalog {
		if f.Key != fieldKey {
			continue
		}
		for _, o := range f.Options {
			if o.Value == value {
				return true
			}
		}
		return false
	}
	return false
}

// OptionLabel returns the display label of a value, or the value itself if unknown.
func OptionLabel(fieldKey string, value string) string {
	for _, f := range catalog {
		if f.Key != fieldKey {
			continue
		}
		for _, o := range f.Options {
			if o.Value == value {
				return o.Label
			}
		}
	}
	return value
}
