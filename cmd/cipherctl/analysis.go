package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/RowanDark/cipherkit/internal/analysis"
)

func (a *app) freqCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "freq",
		Short: "Count characters, most frequent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := a.readInput(&in)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, lc := range analysis.RankedCounts(text) {
				fmt.Fprintf(tw, "%q\t%d\n", lc.Letter, lc.Count)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "index of coincidence: %.4f\n", analysis.IndexOfCoincidence(text))
			return nil
		},
	}
	in.register(cmd)
	return cmd
}

func (a *app) keyLengthCmd() *cobra.Command {
	var (
		in          inputFlags
		showProfile bool
	)
	cmd := &cobra.Command{
		Use:   "keylength",
		Short: "Estimate the key length of a Vigenère ciphertext",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := a.readInput(&in)
			if err != nil {
				return err
			}
			profile, err := a.analyzer.CoincidenceProfile(text)
			if err != nil {
				return err
			}
			best, _ := profile.Best()
			fmt.Fprintln(a.stdout, best.Length)
			if !showProfile {
				return nil
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LENGTH\tSCORE")
			for _, c := range profile {
				fmt.Fprintf(tw, "%d\t%.4f\n", c.Length, c.Score)
			}
			return tw.Flush()
		},
	}
	in.register(cmd)
	cmd.Flags().BoolVar(&showProfile, "profile", false, "print the score of every candidate length")
	return cmd
}

func (a *app) attackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attack",
		Short: "Break a ciphertext without its key",
	}
	cmd.AddCommand(a.attackVigenereCmd(), a.attackSubstitutionCmd())
	return cmd
}

func (a *app) attackVigenereCmd() *cobra.Command {
	var (
		in        inputFlags
		keyLength int
	)
	cmd := &cobra.Command{
		Use:   "vigenere",
		Short: "Recover a Vigenère key by coincidence counting and frequency analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := a.readInput(&in)
			if err != nil {
				return err
			}

			var result analysis.AttackResult
			if cmd.Flags().Changed("key-length") {
				result, err = a.analyzer.AttackWithLength(text, keyLength)
				if err != nil {
					return err
				}
			} else {
				result, err = a.analyzer.Attack(text)
				if err != nil {
					return err
				}
			}

			fmt.Fprintf(a.stdout, "key: %s\nkey length: %d\n\n%s\n", result.Key, result.KeyLength, result.Plaintext)
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().IntVarP(&keyLength, "key-length", "l", 0, "skip estimation and use this key length")
	return cmd
}

func (a *app) attackSubstitutionCmd() *cobra.Command {
	var (
		in          inputFlags
		showMapping bool
	)
	cmd := &cobra.Command{
		Use:   "substitution",
		Short: "Decrypt a substitution by matching letter frequencies to English",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := a.readInput(&in)
			if err != nil {
				return err
			}
			plaintext, mapping := a.analyzer.SolveSubstitution(text)
			if showMapping {
				from := make([]rune, 0, len(mapping))
				for r := range mapping {
					from = append(from, r)
				}
				sort.Slice(from, func(i, j int) bool { return from[i] < from[j] })
				for _, r := range from {
					fmt.Fprintf(a.stdout, "%c -> %c\n", r, mapping[r])
				}
				fmt.Fprintln(a.stdout)
			}
			fmt.Fprintln(a.stdout, plaintext)
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().BoolVar(&showMapping, "mapping", false, "print the recovered mapping before the plaintext")
	return cmd
}

func (a *app) detectCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Guess which classical cipher produced a text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := a.readInput(&in)
			if err != nil {
				return err
			}
			results, err := analysis.NewClassicalDetector(a.analyzer).Detect(cmd.Context(), []byte(text))
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CIPHER\tCONFIDENCE\tNEXT STEP\tREASONING")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%.2f\t%s\t%s\n", r.Cipher, r.Confidence, r.Operation, r.Reasoning)
			}
			return tw.Flush()
		},
	}
	in.register(cmd)
	return cmd
}
