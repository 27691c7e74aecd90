// Command stampc compiles PBASIC-dialect source into a BASIC Stamp EEPROM image.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kt-stephano/stampc/compiler"
)

var log = logrus.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "stampc",
		Short: "Compile PBASIC source into a BASIC Stamp EEPROM image",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(os.Stderr)
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			} else {
				log.SetLevel(logrus.InfoLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newCompileCmd())
	root.AddCommand(newWordsCmd())
	return root
}

func newCompileCmd() *cobra.Command {
	var (
		moduleName     string
		dialectVersion string
		directivesOnly bool
		packetsOut     string
		xrefOut        string
	)

	cmd := &cobra.Command{
		Use:   "compile <file.bas>",
		Short: "Compile a source file into an EEPROM image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			log.WithFields(logrus.Fields{
				"file":           args[0],
				"module":         moduleName,
				"dialect":        dialectVersion,
				"directivesOnly": directivesOnly,
			}).Debug("starting compile")

			parseStamp := moduleName == ""
			override := compiler.ModuleNone
			if !parseStamp {
				m, ok := moduleByName[moduleName]
				if !ok {
					return fmt.Errorf("unknown module %q", moduleName)
				}
				override = m
			}

			result := compiler.Compile(src, directivesOnly, parseStamp, override)
			if result.Error != nil {
				printDiagnostic(args[0], result.Error)
				return fmt.Errorf("compile failed")
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "ok")
			fmt.Fprintf(cmd.OutOrStdout(), ": %s (module=%s, %d packets)\n",
				args[0], result.Module, len(result.Packets))

			if packetsOut != "" {
				if err := writePackets(packetsOut, result); err != nil {
					return err
				}
				log.WithField("path", packetsOut).Info("wrote packets")
			}
			if xrefOut != "" {
				if err := writeXref(xrefOut, result); err != nil {
					return err
				}
				log.WithField("path", xrefOut).Info("wrote cross-reference")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&moduleName, "module", "", "target module override (BS1, BS2, BS2e, BS2sx, BS2p, BS2pe)")
	cmd.Flags().StringVar(&dialectVersion, "pbasic", "2.5", "PBASIC dialect version (2.0 or 2.5); logged only, the source's $PBASIC directive sets the dialect")
	cmd.Flags().BoolVar(&directivesOnly, "directives-only", false, "only read $STAMP/$PORT/$PBASIC and report the target")
	cmd.Flags().StringVar(&packetsOut, "packets", "", "write the EEPROM download packets to this path")
	cmd.Flags().StringVar(&xrefOut, "xref", "", "write the source/element cross-reference to this path")
	return cmd
}

func newWordsCmd() *cobra.Command {
	var (
		moduleName string
		version    string
	)
	cmd := &cobra.Command{
		Use:   "words",
		Short: "List the reserved words available for a module/dialect pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, ok := moduleByName[moduleName]
			if !ok {
				return fmt.Errorf("unknown module %q", moduleName)
			}
			dialect, ok := dialectByName[version]
			if !ok {
				return fmt.Errorf("unknown PBASIC version %q", version)
			}
			buf := make([]byte, 1<<16)
			n, err := compiler.GetReservedWords(module, dialect, buf)
			if err != nil {
				return err
			}
			printReservedWords(cmd, buf[:n])
			return nil
		},
	}
	cmd.Flags().StringVar(&moduleName, "module", "BS2", "target module")
	cmd.Flags().StringVar(&version, "pbasic", "2.5", "PBASIC dialect version")
	return cmd
}

var moduleByName = map[string]compiler.Module{
	"BS1":   compiler.ModuleBS1,
	"BS2":   compiler.ModuleBS2,
	"BS2e":  compiler.ModuleBS2e,
	"BS2sx": compiler.ModuleBS2sx,
	"BS2p":  compiler.ModuleBS2p,
	"BS2pe": compiler.ModuleBS2pe,
}

var dialectByName = map[string]compiler.Dialect{
	"2.0": compiler.Dialect20,
	"2.5": compiler.Dialect25,
}

func printDiagnostic(file string, d *compiler.Diagnostic) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprintf(os.Stderr, "error")
	fmt.Fprintf(os.Stderr, " %s: %s\n", file, d.Error())
}

func printReservedWords(cmd *cobra.Command, data []byte) {
	start := 0
	var fields []string
	for i, b := range data {
		if b == 0 {
			fields = append(fields, string(data[start:i]))
			start = i + 1
			if len(fields) == 2 {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", fields[0], fields[1])
				fields = fields[:0]
			}
		}
	}
}

func writePackets(path string, result *compiler.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, p := range result.Packets {
		if _, err := fmt.Fprintf(f, "%02X %X %02X\n", p.Header, p.Payload, p.Checksum); err != nil {
			return err
		}
	}
	return nil
}

func writeXref(path string, result *compiler.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, r := range result.Xref {
		if _, err := fmt.Fprintf(f, "%d\t%d\n", r.SourceOffset, r.ElementIndex); err != nil {
			return err
		}
	}
	return nil
}
