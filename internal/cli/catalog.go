package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/railvoice/internal/catalog"
	"github.com/ppiankov/railvoice/internal/pipeline"
	"github.com/ppiankov/railvoice/internal/score"
)

var (
	catalogYAML    bool
	catalogNumbers bool
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List command labels and their phrases",
	Long: `Catalog prints the active command catalog: label, representative phrase,
spoken variants and whether the label carries a wagon count.

--yaml prints the catalog in the format accepted by --catalog, a starting
point for a custom command set.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().BoolVar(&catalogYAML, "yaml", false, "print the catalog as YAML")
	catalogCmd.Flags().BoolVar(&catalogNumbers, "numbers", false, "print the number lexicon instead")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cat, lex, err := pipeline.LoadTables(cfg.Tables)
	if err != nil {
		return err
	}

	gate, err := score.NewGate(cfg.Tables.Gate...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if catalogNumbers {
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "LEMMA\tVALUE\tTIER")
		for _, e := range lex.Entries() {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", e.Lemma, e.Value, e.Tier)
		}
		return tw.Flush()
	}

	if catalogYAML {
		data, err := yaml.Marshal(struct {
			Commands []catalog.Command `yaml:"commands"`
		}{cat.Commands()})
		if err != nil {
			return fmt.Errorf("marshal catalog: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPHRASE\tVARIANTS\tCOUNT")
	for _, cmd := range cat.Commands() {
		count := ""
		if gate.Contains(cmd.ID) {
			count = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", cmd.ID, cmd.Name, strings.Join(cmd.Phrases, ", "), count)
	}
	return tw.Flush()
}
