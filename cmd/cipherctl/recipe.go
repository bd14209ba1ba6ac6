package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/RowanDark/cipherkit/internal/cipher"
)

func (a *app) opsCmd() *cobra.Command {
	var opType string
	cmd := &cobra.Command{
		Use:   "ops",
		Short: "List registered operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ops := a.registry.List()
			if opType != "" {
				ops = a.registry.ListByType(cipher.OperationType(opType))
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tREVERSE\tDESCRIPTION")
			for _, op := range ops {
				reverse := "-"
				if rev, ok := op.Reverse(); ok {
					reverse = rev.Name()
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", op.Name(), op.Type(), reverse, op.Description())
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&opType, "type", "", "only list operations of this type (encrypt, decrypt, normalize, analyze)")
	return cmd
}

func (a *app) recipeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Manage saved pipelines",
	}
	cmd.AddCommand(a.recipeSaveCmd(), a.recipeListCmd(), a.recipeRunCmd(), a.recipeDeleteCmd())
	return cmd
}

func (a *app) recipeSaveCmd() *cobra.Command {
	var (
		from        string
		family      string
		key         string
		strip       bool
		description string
		tags        []string
	)
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save a pipeline under a name",
		Example: `  cipherctl recipe save lemon --cipher vigenere --key lemon --strip
  cipherctl recipe save custom --from pipeline.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pipeline cipher.Pipeline
			switch {
			case from != "":
				data, err := os.ReadFile(from)
				if err != nil {
					return fmt.Errorf("read %s: %w", from, err)
				}
				if err := yaml.Unmarshal(data, &pipeline); err != nil {
					return fmt.Errorf("parse %s: %w", from, err)
				}
			case key != "":
				step, ok := cipher.CipherStep(family, key, false)
				if !ok {
					return fmt.Errorf("unknown cipher %q", family)
				}
				if strip {
					pipeline.Operations = append(pipeline.Operations, cipher.OperationConfig{Name: "text_strip"})
				}
				pipeline.Operations = append(pipeline.Operations, step)
				pipeline.Reversible = !strip
			default:
				return fmt.Errorf("either --from or --key is required")
			}
			if len(pipeline.Operations) == 0 {
				return fmt.Errorf("recipe %s has no operations", args[0])
			}
			for _, op := range pipeline.Operations {
				if _, ok := a.registry.Get(op.Name); !ok {
					return fmt.Errorf("%w: %s", cipher.ErrUnknownOperation, op.Name)
				}
			}

			store, err := a.recipeStore()
			if err != nil {
				return err
			}
			recipe := &cipher.Recipe{Name: args[0], Description: description, Tags: tags, Pipeline: pipeline}
			if err := store.SaveRecipe(recipe); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "saved recipe %s (%d steps)\n", recipe.Name, len(pipeline.Operations))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "read the pipeline from a YAML file")
	cmd.Flags().StringVarP(&family, "cipher", "c", "vigenere", "cipher family for a one-step recipe")
	cmd.Flags().StringVarP(&key, "key", "k", "", "key for a one-step recipe")
	cmd.Flags().BoolVar(&strip, "strip", false, "strip the input before enciphering")
	cmd.Flags().StringVarP(&description, "description", "d", "", "recipe description")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag the recipe (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("from", "key")
	return cmd
}

func (a *app) recipeListCmd() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.recipeStore()
			if err != nil {
				return err
			}
			recipes := store.ListRecipes()
			if query != "" {
				recipes = store.SearchRecipes(query)
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSTEPS\tTAGS\tDESCRIPTION")
			for _, r := range recipes {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", r.Name, len(r.Pipeline.Operations), strings.Join(r.Tags, ","), r.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only list recipes matching this name, description or tag")
	return cmd
}

func (a *app) recipeRunCmd() *cobra.Command {
	var (
		in      inputFlags
		reverse bool
	)
	cmd := &cobra.Command{
		Use:   "run NAME",
		Short: "Run a saved recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.recipeStore()
			if err != nil {
				return err
			}
			recipe, ok := store.GetRecipe(args[0])
			if !ok {
				return fmt.Errorf("recipe %s not found", args[0])
			}
			pipeline := &recipe.Pipeline
			if reverse {
				if pipeline, err = pipeline.ReverseWith(a.registry); err != nil {
					return err
				}
			}
			text, err := a.readInput(&in)
			if err != nil {
				return err
			}
			out, err := pipeline.ExecuteWith(cmd.Context(), a.registry, []byte(text))
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, string(out))
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "run the inverse pipeline")
	return cmd
}

func (a *app) recipeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.recipeStore()
			if err != nil {
				return err
			}
			if _, ok := store.GetRecipe(args[0]); !ok {
				return fmt.Errorf("recipe %s not found", args[0])
			}
			if err := store.DeleteRecipe(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "deleted recipe %s\n", args[0])
			return nil
		},
	}
}
