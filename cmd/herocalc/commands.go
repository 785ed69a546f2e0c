package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/herocalc/internal/game/character"
	"github.com/cory-johannsen/herocalc/internal/game/ruleset"
)

func newNewCmd(a *app) *cobra.Command {
	var (
		powerLevel int
		name       string
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Print a blank character",
		Long:  `Create a zeroed character at the given power level and print it as YAML.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pl := powerLevel
			if pl <= 0 {
				pl = a.cfg.Engine.DefaultPowerLevel
			}
			s := a.engine.NewCharacter(pl)
			s.Name = name
			return writeSnapshot(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().IntVar(&powerLevel, "power-level", 0, "power level (defaults to engine.default_power_level)")
	cmd.Flags().StringVar(&name, "name", "", "character name")
	return cmd
}

func newRecalcCmd(a *app) *cobra.Command {
	var (
		output     string
		errorsOnly bool
	)
	cmd := &cobra.Command{
		Use:   "recalc <character.yaml>",
		Short: "Recalculate a character file",
		Long:  `Read a character document, recompute every cost and derived field, and print the result.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading character: %w", err)
			}
			s, err := character.Unmarshal(data)
			if err != nil {
				return err
			}
			s = a.engine.Recalculate(s)
			a.logger.Info("character recalculated",
				zap.String("file", args[0]),
				zap.Int("points_spent", s.Derived.PointsSpent),
				zap.Int("points_total", s.Derived.PointsTotal),
				zap.Int("errors", len(s.Derived.Errors)),
			)
			if errorsOnly {
				for _, e := range s.Derived.Errors {
					fmt.Fprintln(cmd.OutOrStdout(), e)
				}
				return nil
			}
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating output: %w", err)
				}
				if err := writeSnapshot(f, s); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("closing output: %w", err)
				}
				return nil
			}
			return writeSnapshot(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to a file instead of stdout")
	cmd.Flags().BoolVar(&errorsOnly, "errors", false, "print only validation messages")
	return cmd
}

func newArchetypeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archetype [id]",
		Short: "List archetypes or instantiate one",
		Long:  `Without arguments, list the catalog's archetypes. With an id, print a new character built from that archetype.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listArchetypes(cmd.OutOrStdout(), a.engine.Catalog().Archetypes())
			}
			s, err := a.engine.FromArchetype(args[0])
			if err != nil {
				return err
			}
			return writeSnapshot(cmd.OutOrStdout(), s)
		},
	}
	return cmd
}

func listArchetypes(w io.Writer, archetypes []*ruleset.Archetype) error {
	for _, at := range archetypes {
		if _, err := fmt.Fprintf(w, "%-16s PL %-2d %s\n", at.ID, at.PowerLevel, at.Name); err != nil {
			return err
		}
	}
	return nil
}

func newMeasureCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "measure <rank> <mass|time|distance|volume>",
		Short: "Look up a rank on the measurement table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rank, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parsing rank %q: %w", args[0], err)
			}
			res := a.engine.Measure(rank, args[1])
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return err
		},
	}
	return cmd
}

func writeSnapshot(w io.Writer, s *character.Snapshot) error {
	data, err := character.Marshal(s)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
