package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pm-backoffice/core/calendar"
	"pm-backoffice/pkg/diaryapi"
	"pm-backoffice/pkg/diaryview"
)

type app struct {
	config *viper.Viper
}

func (a *app) client() *diaryapi.Client {
	return diaryapi.NewClient(a.config.GetString("api"),
		diaryapi.WithToken(a.config.GetString("token")),
		diaryapi.WithTimeout(a.config.GetDuration("timeout")))
}

func (a *app) staff() (string, error) {
	staffID := a.config.GetString("staff")
	if staffID == "" {
		return "", errors.New("no staff id: pass --staff or set DIARYCTL_STAFF")
	}

	return staffID, nil
}

// logged attaches a stderr logger for the one-shot commands.
func logged(cmd *cobra.Command) context.Context {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}).
		Level(zerolog.WarnLevel).With().Timestamp().Logger()

	return logger.WithContext(cmd.Context())
}

func NewRootCmd() *cobra.Command {
	a := &app{config: viper.New()}

	cmd := &cobra.Command{
		Use:           "diaryctl",
		Short:         "Browse the staff diary week by week",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			staffID, err := a.staff()
			if err != nil {
				return err
			}

			model := diaryview.New(cmd.Context(), a.client(), staffID, calendar.Date{},
				diaryview.WithTimeout(a.config.GetDuration("timeout")))

			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()

			return err
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("api", "http://localhost:8080/api/v1", "diary API base URL")
	flags.String("token", "", "bearer token sent to the API")
	flags.String("staff", "", "staff id whose diary is shown")
	flags.Duration("timeout", 10*time.Second, "request timeout")

	a.config.SetEnvPrefix("DIARYCTL")
	a.config.AutomaticEnv()
	_ = a.config.BindPFlags(flags)

	cmd.AddCommand(newWeekCmd(a), newKindsCmd(a))

	return cmd
}

func newWeekCmd(a *app) *cobra.Command {
	var (
		date  string
		width int
	)

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print one diary week and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			staffID, err := a.staff()
			if err != nil {
				return err
			}

			pivot := calendar.DateOf(time.Now())

			if date != "" {
				pivot, err = calendar.ParseDate(date)
				if err != nil {
					return err
				}
			}

			view, err := a.client().Week(logged(cmd), staffID, pivot)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), diaryview.Render(view, width))

			return err
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "any date in the week, YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&width, "width", 120, "output width in columns")

	return cmd
}

func newKindsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the event kinds and their default durations",
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := a.client().Kinds(logged(cmd))
			if err != nil {
				return err
			}

			for _, k := range kinds {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%-16s %3d min\n", k.Kind, k.DurationMinutes)
				if err != nil {
					return err
				}
			}

			return nil
		},
	}
}
