// Command prosemark labels sentences in XML-tagged prose.
// It locates sentence boundaries, wraps each sentence in an identified
// span marker, renumbers marker ids in document order, and verifies
// labeled documents.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/ProseMark/core/errors"
	"github.com/FocuswithJustin/ProseMark/core/label"
	"github.com/FocuswithJustin/ProseMark/core/locate"
	"github.com/FocuswithJustin/ProseMark/core/textbuf"
	"github.com/FocuswithJustin/ProseMark/internal/logging"
	"github.com/FocuswithJustin/ProseMark/internal/validation"
)

const version = "0.1.0"

// markerLen is how many runes one marker adds around a sentence.
var markerLen = len(`<span id="`+label.Placeholder+`">`) + len("</span>")

// CLI defines the command-line interface for prosemark.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`

	Label    LabelCmd    `cmd:"" help:"Wrap every sentence in an identified span marker"`
	Next     NextCmd     `cmd:"" help:"Print the next sentence at or after a position"`
	Renumber RenumberCmd `cmd:"" help:"Reassign marker ids sequentially in document order"`
	Verify   VerifyCmd   `cmd:"" help:"Check marker ids in a labeled document"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// LabelCmd labels every sentence in a document.
type LabelCmd struct {
	Path   string `arg:"" help:"XML document to label" type:"existingfile"`
	Out    string `name:"out" short:"o" help:"Output path (default: stdout)"`
	From   int    `name:"from" default:"0" help:"Position to start labeling at"`
	Limit  int    `name:"limit" default:"0" help:"Stop after this many sentences (0 = all)"`
	Strict bool   `name:"strict" help:"Fail on unlabeled prose between sentences instead of stepping over it"`
}

func (c *LabelCmd) Run(ctx *kong.Context) error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}

	out, count, err := labelDocument(string(data), c.From, c.Limit, c.Strict)
	if err != nil {
		return err
	}
	logging.Info("labeling complete", "path", c.Path, "sentences", count)

	return writeOutput(c.Out, []byte(out))
}

// labelDocument runs the locate-label loop over text, then renumbers.
// Each labeling mutates the buffer, so the next search always starts from
// the region as shifted by the markers just inserted.
func labelDocument(text string, from, limit int, strict bool) (string, int, error) {
	buf := textbuf.New(text)
	logger := logging.GetLogger()
	loc := locate.New(buf, logger)
	lab := label.NewLabeler(buf, logger)
	ren := label.NewRenumberer(buf, logger)

	count := 0
	sent, err := loc.NextFromPoint(from)
	for err == nil {
		region := sent.Region
		if lerr := lab.Label(sent); lerr != nil {
			if !errors.Is(lerr, errors.ErrStructuralConflict) {
				return "", count, lerr
			}
			logging.MarkerSkipped(sent.Begin, sent.End, lerr.Error())
		} else {
			logging.MarkerLabeled(sent.Begin, sent.End)
			count++
			region.End += markerLen
		}
		if limit > 0 && count >= limit {
			break
		}
		sent, err = loc.NextFromRegion(region)
		if err != nil && errors.Is(err, errors.ErrInterveningText) && !strict {
			// Step over prose the boundary rules could not claim, the way
			// an operator would in the editor.
			logging.Warn("stepping over intervening text", "error", err.Error())
			sent, err = loc.NextFromPoint(region.End)
		}
	}
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return "", count, err
	}

	if _, err := ren.RenumberAll(); err != nil {
		return "", count, err
	}
	return buf.String(), count, nil
}

// NextCmd prints the next sentence without mutating anything.
type NextCmd struct {
	Path string `arg:"" help:"XML document to scan" type:"existingfile"`
	From int    `name:"from" default:"0" help:"Position to scan from"`
}

func (c *NextCmd) Run(ctx *kong.Context) error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}

	buf := textbuf.New(string(data))
	sent, err := locate.New(buf, logging.GetLogger()).NextFromPoint(c.From)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			fmt.Println("no sentence found")
			return nil
		}
		return err
	}

	fmt.Printf("%s %s\n", sent.Region, buf.Substring(sent.Region))
	return nil
}

// RenumberCmd reassigns marker ids in an already-labeled document.
type RenumberCmd struct {
	Path string `arg:"" help:"Labeled document to renumber" type:"existingfile"`
	Out  string `name:"out" short:"o" help:"Output path (default: stdout)"`
}

func (c *RenumberCmd) Run(ctx *kong.Context) error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}

	buf := textbuf.New(string(data))
	count, err := label.NewRenumberer(buf, logging.GetLogger()).RenumberAll()
	if err != nil {
		return err
	}
	logging.Info("renumbering complete", "path", c.Path, "markers", count)

	return writeOutput(c.Out, []byte(buf.String()))
}

// VerifyCmd checks the markers of a labeled document.
type VerifyCmd struct {
	Path string `arg:"" help:"Labeled document to verify" type:"existingfile"`
}

func (c *VerifyCmd) Run(ctx *kong.Context) error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}

	report, err := validation.VerifyDocument(data)
	if err != nil {
		return err
	}

	fmt.Printf("Markers:    %d\n", report.MarkerCount)
	fmt.Printf("Sequential: %v\n", report.Sequential)
	for _, p := range report.Problems {
		fmt.Printf("  %s: %s\n", p.ID, p.Message)
	}
	if !report.Ok() {
		return fmt.Errorf("%d marker problem(s) found", len(report.Problems))
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *kong.Context) error {
	fmt.Printf("prosemark version %s\n", version)
	return nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("prosemark"),
		kong.Description("Sentence boundary labeling for XML-tagged prose"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
