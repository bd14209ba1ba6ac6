package analysis

// EnglishFrequencyOrder lists the English letters from most to least common.
const EnglishFrequencyOrder = "etaoinshrdlcumwfgypbvkjxqz"

// englishFrequencies holds the relative frequency (percent) of a..z in
// English prose.
var englishFrequencies = [26]float64{
	8.167, 1.492, 2.782, 4.253, 12.702, 2.228, 2.015, 6.094, 6.966, 0.153,
	0.772, 4.025, 2.406, 6.749, 7.507, 1.929, 0.095, 5.987, 6.327, 9.056,
	2.758, 0.978, 2.360, 0.150, 1.974, 0.074,
}

const (
	// englishIC is the index of coincidence of English prose.
	englishIC = 0.0667
	// randomIC is the index of coincidence of uniformly random letters.
	randomIC = 1.0 / 26
	// monoalphabeticIC separates single-alphabet ciphers from polyalphabetic
	// ones.
	monoalphabeticIC = 0.055
)
