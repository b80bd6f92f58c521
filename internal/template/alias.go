package template

// aliases maps friendly and legacy template names, with their separator
// variants, to memegen canonical ids. It is never written after init.
var aliases = map[string]string{
	"success-kid": "success",
	"successkid":  "success",

	"gru-plan": "gru",
	"gruplan":  "gru",

	"distracted-boyfriend": "db",
	"distracted_boyfriend": "db",
	"distractedboyfriend":  "db",

	"two-buttons": "ds",
	"two_buttons": "ds",
	"twobuttons":  "ds",

	"change-my-mind": "cmm",
	"change_my_mind": "cmm",
	"changemymind":   "cmm",

	"leonardo-dicaprio": "leo",
	"leonardo_dicaprio": "leo",
	"leonardodicaprio":  "leo",
}

// Alias returns the canonical id for a known alias, or "" if name is not one.
func Alias(name string) string {
	return aliases[name]
}
