package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RowanDark/cipherkit/internal/cipher"
)

func (a *app) encryptCmd() *cobra.Command {
	return a.transformCmd("encrypt", "Encrypt text with a classical cipher", false)
}

func (a *app) decryptCmd() *cobra.Command {
	return a.transformCmd("decrypt", "Decrypt text with a known key", true)
}

func (a *app) transformCmd(use, short string, decrypt bool) *cobra.Command {
	var (
		in     inputFlags
		family string
		key    string
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Example: fmt.Sprintf(`  cipherctl %[1]s --cipher vigenere --key lemon --text "attack at dawn"
  cipherctl %[1]s --cipher substitution --key qwertyuiopasdfghjklzxcvbnm --file msg.txt
  echo hello | cipherctl %[1]s --cipher caesar --key 3`, use),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			step, ok := cipher.CipherStep(family, key, decrypt)
			if !ok {
				return fmt.Errorf("unknown cipher %q (want one of %s)", family, strings.Join(cipher.CipherFamilies(), ", "))
			}
			text, err := a.readInput(&in)
			if err != nil {
				return err
			}
			pipeline := cipher.Pipeline{Operations: []cipher.OperationConfig{step}}
			out, err := pipeline.ExecuteWith(cmd.Context(), a.registry, []byte(text))
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, string(out))
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&family, "cipher", "c", "vigenere", "cipher family: "+strings.Join(cipher.CipherFamilies(), ", "))
	cmd.Flags().StringVarP(&key, "key", "k", "", "password, 26-letter alphabet or shift")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func (a *app) stripCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "strip",
		Short: "Reduce text to lowercase ASCII letters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.strip = true
			text, err := a.readInput(&in)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in.text, "text", "t", "", "input text")
	cmd.Flags().StringVarP(&in.file, "file", "f", "", "read input from a file (.html is parsed)")
	cmd.MarkFlagsMutuallyExclusive("text", "file")
	return cmd
}
