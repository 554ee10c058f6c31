// classifydoc prints the document type for each given PDF, for checking
// classification rules against real documents.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/openlettings/biddocs/internal/classify"
	"github.com/openlettings/biddocs/internal/pdftext"
)

func main() {
	var (
		filenameOnly = flag.Bool("filename-only", false, "classify by filename rules alone, no content read")
		verbose      = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: classifydoc [-filename-only] [-v] <file.pdf> ...")
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	text := pdftext.NewExtractor(pdftext.Config{}, logger)
	classifier := classify.NewClassifier(text, logger)
	ctx := context.Background()

	for _, path := range flag.Args() {
		if *filenameOnly {
			fmt.Printf("%s\t%s\n", path, classify.ByFilename(path))
			continue
		}
		fmt.Printf("%s\t%s\n", path, classifier.Classify(ctx, path))
	}
}
