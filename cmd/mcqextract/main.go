// Command mcqextract extracts multiple-choice questions from user-selected
// regions of a document page, reconciling the structured text layer with
// image recognition.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mcqextract",
	Short: "Hybrid region-text extraction for multiple-choice questions",
	Long: `mcqextract resolves user-selected page regions into question and
option text by probing the document's structured text layer first and
falling back to image recognition when the layer is sparse, merging the two
sources when both are partial.`,
	SilenceUsage: true,
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env file: %v", err)
	}
	rootCmd.AddCommand(extractCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
