// Package analysis recovers classical-cipher keys from ciphertext alone.
//
// What it does:
//
//   - Frequency analysis: LetterDistribution, RankedCounts and
//     RankByFrequency count characters and order them by descending count.
//     Ties are broken by first occurrence in the text, so results are
//     deterministic.
//   - Substitution cryptanalysis: RecoverMapping pairs the i-th most frequent
//     ciphertext letter with the i-th letter of EnglishFrequencyOrder. The
//     result is a best single-pass guess, typed as cipher.SubstitutionMap.
//   - Vigenère period estimation: CoincidenceProfile scores every candidate
//     key length L in 1..min(n/3, MaxKeyLength) by the fraction of positions
//     i with s[i] == s[i+L]. EstimateKeyLength returns the arg-max; the
//     smallest L wins ties.
//   - Vigenère key recovery: RecoverKey splits the letters into columns by
//     position modulo the key length and assumes the most frequent letter of
//     each column is a shifted 'e'.
//   - Attack composes the three steps and decrypts.
//   - ClassicalDetector guesses the cipher family from the index of
//     coincidence and the similarity of the letter distribution to English.
//
// Why coincidence counting works:
//
//	Two letters enciphered with the same alphabet are equal about 6.6% of
//	the time in English, two letters enciphered with unrelated alphabets
//	only about 3.8%. At lag = key length (or a multiple) every pair shares
//	an alphabet, so the coincidence rate jumps.
//
// Concurrency:
//
//	Candidate lengths and key columns are independent, so an Analyzer scores
//	them on a bounded errgroup (WithWorkers). Results are written by index
//	and reduced in order; output never depends on scheduling.
//
// The estimators are heuristics. A wrong key length or a wrong letter is not
// an error; only malformed input (text too short, key length < 1) is.
//
// Example:
//
//	res, err := analysis.Attack(ciphertext)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Key, res.Plaintext)
package analysis
