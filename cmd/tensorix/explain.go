package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/tensorix/pkg/cli"
	"mercator-hq/tensorix/pkg/config"
	"mercator-hq/tensorix/pkg/notation"
	"mercator-hq/tensorix/pkg/tensor"
	"mercator-hq/tensorix/pkg/tensor/symbolic"
)

var explainFlags struct {
	tensorType string
	name       string
	space      string
	with       string
	withType   string
	withName   string
	format     string
}

var explainCmd = &cobra.Command{
	Use:   "explain NOTATION",
	Short: "Show the operations a notation applies",
	Long: `Apply NOTATION to a symbolic tensor of the given type and print the
canonical notation, the operations it triggers and the resulting expression.

With --with, a second operand is built and both are multiplied: letters
upper on one side and lower on the other are contracted.

Examples:
  tensorix explain "(ij)_k" --type 2,1
  tensorix explain "ij_j" --type 2,1 --format json
  tensorix explain "i_j" --type 1,1 --with "j_k" --with-type 1,1`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)

	f := explainCmd.Flags()
	f.StringVarP(&explainFlags.tensorType, "type", "t", "", "tensor type p,q")
	f.StringVar(&explainFlags.name, "name", "T", "tensor name")
	f.StringVar(&explainFlags.space, "space", "", "space of the tensors (default: tensor.basis from config)")
	f.StringVar(&explainFlags.with, "with", "", "notation of a second operand to multiply with")
	f.StringVar(&explainFlags.withType, "with-type", "", "type p,q of the second operand")
	f.StringVar(&explainFlags.withName, "with-name", "U", "name of the second operand")
	f.StringVarP(&explainFlags.format, "format", "f", "text", "output format: text, json")

	if err := explainCmd.MarkFlagRequired("type"); err != nil {
		panic(fmt.Sprintf("failed to mark type flag as required: %v", err))
	}
}

// Explanation describes the effect of a notation.
type Explanation struct {
	Notation   string               `json:"notation"`
	Canonical  string               `json:"canonical"`
	Type       [2]int               `json:"type"`
	Operations []notation.Operation `json:"operations"`
	Display    string               `json:"display"`
	Result     string               `json:"result"`
	ResultType [2]int               `json:"result_type"`
	Modified   bool                 `json:"modified"`

	// Product is set when a second operand was given.
	Product *ProductExplanation `json:"product,omitempty"`
}

// ProductExplanation describes a multiplication of two expressions.
type ProductExplanation struct {
	With       *Explanation       `json:"with"`
	Operation  notation.Operation `json:"operation"`
	Result     string             `json:"result"`
	ResultType [2]int             `json:"result_type"`
}

func (e *Explanation) String() string {
	var sb strings.Builder
	e.write(&sb, "")
	if e.Product != nil {
		sb.WriteString("\nmultiplied by\n")
		e.Product.With.write(&sb, "  ")
		fmt.Fprintf(&sb, "\noperation:  %s\n", e.Product.Operation)
		fmt.Fprintf(&sb, "result:     %s  (%d,%d)", e.Product.Result, e.Product.ResultType[0], e.Product.ResultType[1])
	}
	return sb.String()
}

func (e *Explanation) write(sb *strings.Builder, indent string) {
	fmt.Fprintf(sb, "%snotation:   %s\n", indent, e.Notation)
	fmt.Fprintf(sb, "%scanonical:  %s\n", indent, e.Canonical)
	fmt.Fprintf(sb, "%stype:       (%d,%d)\n", indent, e.Type[0], e.Type[1])
	if len(e.Operations) == 0 {
		fmt.Fprintf(sb, "%soperations: none\n", indent)
	} else {
		fmt.Fprintf(sb, "%soperations:\n", indent)
		for i, op := range e.Operations {
			fmt.Fprintf(sb, "%s  %d. %s\n", indent, i+1, op)
		}
	}
	fmt.Fprintf(sb, "%sindices:    %s\n", indent, e.Display)
	fmt.Fprintf(sb, "%sresult:     %s  (%d,%d)", indent, e.Result, e.ResultType[0], e.ResultType[1])
}

func runExplain(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(explainFlags.format)
	if err != nil || format == cli.FormatCSV {
		return cli.NewConfigError("format", fmt.Sprintf("want text or json, got %q", explainFlags.format))
	}
	cfg := config.GetConfig()
	space := explainFlags.space
	if space == "" {
		space = cfg.Tensor.Basis
	}

	obs := &lastOperation{}
	ex, exp, err := explain(cfg, space, explainFlags.name, explainFlags.tensorType, args[0], obs)
	if err != nil {
		return cli.NewCommandError("explain", err)
	}

	if explainFlags.with != "" {
		if explainFlags.withType == "" {
			return cli.NewConfigError("with-type", "is required with --with")
		}
		other, otherExp, err := explain(cfg, space, explainFlags.withName, explainFlags.withType, explainFlags.with, nil)
		if err != nil {
			return cli.NewCommandError("explain", err)
		}
		t, err := ex.Multiply(other)
		if err != nil {
			return cli.NewCommandError("explain", err)
		}
		p, q := t.Rank()
		exp.Product = &ProductExplanation{
			With:       otherExp,
			Operation:  obs.op,
			Result:     exprOf(t),
			ResultType: [2]int{p, q},
		}
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), exp)
}

// explain builds a symbolic tensor and applies notation to it.
func explain(cfg *config.Config, space, name, typ, notationStr string, obs notation.Observer) (*notation.Expression, *Explanation, error) {
	p, q, err := parseType(typ)
	if err != nil {
		return nil, nil, err
	}
	prs := notationParser(cfg)
	ind, err := prs.Parse(notationStr)
	if err != nil {
		return nil, nil, err
	}

	t := symbolic.New(space, name, p, q)
	opts := []notation.Option{notation.WithParser(prs), notation.WithLogger(logger.Slog())}
	if obs != nil {
		opts = append(opts, notation.WithObserver(obs))
	}
	ex, err := notation.New(t, notationStr, opts...)
	if err != nil {
		return nil, nil, err
	}

	rp, rq := ex.Tensor().Rank()
	return ex, &Explanation{
		Notation:   notationStr,
		Canonical:  ind.Canonical(),
		Type:       [2]int{p, q},
		Operations: ex.Operations(),
		Display:    ex.String(),
		Result:     exprOf(ex.Tensor()),
		ResultType: [2]int{rp, rq},
		Modified:   ex.Modified(),
	}, nil
}

// parseType reads "p,q".
func parseType(s string) (int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("type must be p,q, got %q", s)
	}
	p, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	q, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || p < 0 || q < 0 {
		return 0, 0, fmt.Errorf("type must be two non-negative integers p,q, got %q", s)
	}
	return p, q, nil
}

func exprOf(t tensor.Tensor) string {
	if s, ok := t.(*symbolic.Tensor); ok {
		return s.Expr()
	}
	return fmt.Sprint(t)
}

// lastOperation remembers the most recent operation.
type lastOperation struct {
	op notation.Operation
}

func (l *lastOperation) NotationParsed(string, time.Duration) {}

func (l *lastOperation) OperationApplied(op notation.Operation) { l.op = op }
