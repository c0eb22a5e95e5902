package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/giygas/antimalarial-dosage/catalog"
	"github.com/giygas/antimalarial-dosage/dosage"
	"github.com/giygas/antimalarial-dosage/handlers"
	"github.com/giygas/antimalarial-dosage/render"
)

func productsCmd(opts *options) *cobra.Command {
	var lang string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the products in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load(opts)
			if err != nil {
				return err
			}

			products := e.catalog.Products()
			if asJSON {
				summaries := make([]handlers.ProductSummary, 0, len(products))
				for _, p := range products {
					summaries = append(summaries, handlers.Summarize(p))
				}
				return writeJSON(cmd.OutOrStdout(), summaries)
			}

			lang = e.localizer.Match(lang, localeFromEnv())
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSCHEME\tWEIGHT (KG)\tDESCRIPTION")
			for _, p := range products {
				min, max := p.Scheme.WeightDomain()
				fmt.Fprintf(tw, "%s\t%s\t%s\t%g-%g\t%s\n", p.ID, p.Name, p.Scheme.Kind(), min, max, p.Description.In(lang))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language for descriptions (en, zh, fr)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the product list as JSON")

	return cmd
}

// computeFlags are the inputs of one dosage computation
type computeFlags struct {
	product string
	weight  string
	route   string
	lang    string
	asJSON  bool
	clamp   bool
}

func computeCmd(opts *options) *cobra.Command {
	f := &computeFlags{}

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the dosage plan for a product and a weight",
		Example: `  dosagectl compute --product argesun --weight 35
  dosagectl compute -p artesun -w 20 --route im --lang fr`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load(opts)
			if err != nil {
				return err
			}
			return runCompute(cmd.OutOrStdout(), cmd.ErrOrStderr(), e, f)
		},
	}

	cmd.Flags().StringVarP(&f.product, "product", "p", "", "Product id (dartepp, argesun, artesun)")
	cmd.Flags().StringVarP(&f.weight, "weight", "w", "", "Patient weight in kg")
	cmd.Flags().StringVarP(&f.route, "route", "r", "", "Injection route for dual-solvent products (iv, im)")
	cmd.Flags().StringVarP(&f.lang, "lang", "l", "", "Output language (en, zh, fr)")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print the structured plan as JSON")
	cmd.Flags().BoolVar(&f.clamp, "clamp", false, "Clip the weight into the product's range instead of failing")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("weight")

	return cmd
}

func runCompute(stdout, stderr io.Writer, e *env, f *computeFlags) error {
	lang := e.localizer.Match(f.lang, localeFromEnv())

	id, err := e.validator.ValidateProductID(f.product)
	if err != nil {
		return report(stdout, stderr, e, nil, &dosage.UnknownProductError{ID: catalog.ProductID(f.product)}, lang, f.asJSON)
	}
	p, _ := e.catalog.Get(id)

	weight, err := dosage.ParseWeight(f.weight)
	if err != nil {
		return report(stdout, stderr, e, p, err, lang, f.asJSON)
	}
	route, err := dosage.ParseRoute(f.route)
	if err != nil {
		return report(stdout, stderr, e, p, err, lang, f.asJSON)
	}

	if f.clamp && p != nil {
		weight = render.ClampWeight(weight, p.Scheme)
	}

	plan, err := dosage.NewEngine(e.catalog).Compute(weight, id, route)
	if err != nil {
		return report(stdout, stderr, e, p, err, lang, f.asJSON)
	}

	if f.asJSON {
		return writeJSON(stdout, plan)
	}
	return render.Text(stdout, e.localizer.PlanView(p, plan, lang))
}

// cliError is the JSON form of a problem
type cliError struct {
	Error     string   `json:"error"`
	Message   string   `json:"message"`
	MinWeight *float64 `json:"min_weight,omitempty"`
	MaxWeight *float64 `json:"max_weight,omitempty"`
}

// report prints the localized problem for err and returns errReported so
// the command exits non-zero without printing it twice
func report(stdout, stderr io.Writer, e *env, p *catalog.Product, err error, lang string, asJSON bool) error {
	if !asJSON {
		if werr := render.Text(stderr, e.localizer.ProblemView(p, err, lang)); werr != nil {
			return werr
		}
		return errReported
	}

	problem := e.localizer.Problem(err, lang)
	out := cliError{Error: problem.Title, Message: problem.Message}
	var oor *dosage.OutOfRangeError
	if errors.As(err, &oor) {
		out.MinWeight = &oor.Min
		out.MaxWeight = &oor.Max
	}
	if werr := writeJSON(stdout, out); werr != nil {
		return werr
	}
	return errReported
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// localeFromEnv turns a POSIX locale such as fr_FR.UTF-8 into a language tag
func localeFromEnv() string {
	for _, key := range []string{"LC_ALL", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return ""
}
