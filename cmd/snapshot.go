package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cmmoran/rdcgen/pkg/action/snapshot"
	"github.com/cmmoran/rdcgen/pkg/manifest"
)

func init() {
	rootCmd.AddCommand(NewSnapshotCommand())
}

func NewSnapshotCommand() *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "record and compare versioned snapshots",
		Long:  "Generate sources into versioned directories, list them and diff the two latest",
	}
	snapshotCmd.AddCommand(newRecordCommand(), newListCommand(), newDiffCommand())
	return snapshotCmd
}

func newRecordCommand() *cobra.Command {
	var name string
	recordCmd := &cobra.Command{
		Use:     "record VERSION",
		Short:   "generate into <output-directory>/VERSION and record it",
		Args:    cobra.ExactArgs(1),
		PreRunE: bindOptionFlags,
		RunE: func(c *cobra.Command, args []string) error {
			s, err := snapshot.Record(afero.NewOsFs(), loadOptions(), name, args[0])
			if err != nil {
				return err
			}
			pterm.Success.Printfln("recorded %s %s (%d files) in %s", s.Name, s.Version, len(s.Files), s.Dir)
			return nil
		},
	}
	addOptionFlags(recordCmd)
	recordCmd.Flags().StringVarP(&name, "name", "n", "api", "snapshot name")
	return recordCmd
}

// manifestPath resolves the manifest the same way generation options do.
func manifestPath() (string, error) {
	opts := loadOptions()
	if err := opts.Normalize(); err != nil {
		return "", err
	}
	return opts.Manifest, nil
}

func newListCommand() *cobra.Command {
	var constraint string
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "list recorded snapshots",
		PreRunE: bindOptionFlags,
		RunE: func(c *cobra.Command, args []string) error {
			path, err := manifestPath()
			if err != nil {
				return err
			}
			m, err := snapshot.List(afero.NewOsFs(), path)
			if err != nil {
				return err
			}
			snapshots := m.Snapshots
			if constraint != "" {
				if snapshots, err = m.Select(constraint); err != nil {
					return err
				}
			}
			table, err := pterm.DefaultTable.
				WithHasHeader().
				WithData(snapshotTable(m, snapshots)).
				Srender()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.OutOrStdout(), table)
			return err
		},
	}
	addOptionFlags(listCmd)
	listCmd.Flags().StringVar(&constraint, "constraint", "", "only list versions matching a semver constraint, e.g. \">= 1.2, < 2\"")
	return listCmd
}

func snapshotTable(m *manifest.Manifest, snapshots []manifest.Snapshot) pterm.TableData {
	data := pterm.TableData{{"Version", "Name", "Target", "Files", "Directory", ""}}
	for _, s := range snapshots {
		var mark string
		switch s.Version {
		case m.CurrentVersion:
			mark = "current"
		case m.PreviousVersion:
			mark = "previous"
		}
		data = append(data, []string{s.Version, s.Name, s.Target, strconv.Itoa(len(s.Files)), s.Dir, mark})
	}
	return data
}

func newDiffCommand() *cobra.Command {
	diffCmd := &cobra.Command{
		Use:     "diff",
		Short:   "diff the current snapshot against the previous one",
		PreRunE: bindOptionFlags,
		RunE: func(c *cobra.Command, args []string) error {
			path, err := manifestPath()
			if err != nil {
				return err
			}
			diff, err := snapshot.DiffCurrentWithPrevious(afero.NewOsFs(), path)
			if err != nil {
				return err
			}
			if strings.TrimSpace(diff) == "" {
				pterm.Info.Printfln("no changes between the two latest snapshots in %s", path)
				return nil
			}
			_, err = fmt.Fprint(c.OutOrStdout(), diff)
			return err
		},
	}
	addOptionFlags(diffCmd)
	return diffCmd
}
