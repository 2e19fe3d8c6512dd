package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"formatflip/pkg/cli"
	"formatflip/pkg/config"
	"formatflip/pkg/export"
	"formatflip/pkg/session"
)

// version is set during build with -ldflags
var version = "0.0.0-dev"

var rootCmd = &cobra.Command{
	Use:   "formatflip [images...]",
	Short: "Convert and lightly edit images from the terminal",
	Long: `FormatFlip converts images between formats (PNG, JPEG, WebP, GIF, BMP,
TIFF, ICO, PDF) and offers light editing: background removal, crop,
rotate, flip, and resize, with undo/redo. Run without a subcommand to
start the interactive editor.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.FileName)
		if err != nil {
			return err
		}

		s := session.New()
		if err := cli.LoadPaths(s, args); err != nil {
			return err
		}

		cli.Version = version
		return cli.NewEditor(s, cfg).Run()
	},
}

var (
	convertFormat  string
	convertQuality int
	convertZip     bool
	convertOutDir  string
)

var convertCmd = &cobra.Command{
	Use:   "convert [images...]",
	Short: "Convert images without entering the editor",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.FileName)
		if err != nil {
			return err
		}
		if convertFormat == "" {
			convertFormat = cfg.Format
		}
		format, err := export.ParseFormat(convertFormat)
		if err != nil {
			return err
		}
		if convertQuality < 0 {
			convertQuality = cfg.Quality
		}
		if convertQuality > 100 {
			return fmt.Errorf("quality %d out of range 0..100", convertQuality)
		}

		s := session.New()
		if err := cli.LoadPaths(s, args); err != nil {
			return err
		}

		results := export.ConvertAll(s.ExportItems(), format, float64(convertQuality)/100)
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", r.Err)
				failed++
			}
		}
		if failed == len(results) {
			return fmt.Errorf("all conversions failed")
		}

		if convertZip {
			blob, err := export.BuildArchive(results)
			if err != nil {
				return err
			}
			out := filepath.Join(convertOutDir, export.ArchiveName)
			if err := os.WriteFile(out, blob, 0644); err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", out)
			return nil
		}

		for _, r := range results {
			if r.Err != nil {
				continue
			}
			out := filepath.Join(convertOutDir, r.OutputName)
			if err := os.WriteFile(out, r.Data, 0644); err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", out)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d conversions failed", failed, len(results))
		}
		return nil
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported export formats",
	Run: func(cmd *cobra.Command, args []string) {
		for _, f := range export.All {
			fmt.Printf("%-5s %s\n", f, f.Description())
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of FormatFlip",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("FormatFlip version %s\n", version)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for a newer release and self-update",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli.Version = version
		return cli.CheckForUpdates(bufio.NewReader(os.Stdin))
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "target format (png, jpeg, webp, gif, bmp, tiff, ico, pdf)")
	convertCmd.Flags().IntVarP(&convertQuality, "quality", "q", -1, "quality 0-100 for lossy formats")
	convertCmd.Flags().BoolVarP(&convertZip, "zip", "z", false, "bundle outputs into "+export.ArchiveName)
	convertCmd.Flags().StringVarP(&convertOutDir, "out", "o", ".", "output directory")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
