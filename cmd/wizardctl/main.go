// wizardctl is the operator CLI: it drives a session the way the
// wizard dashboard does - listing sessions, posting feedback and
// moodboards, triggering generation and watching for end-user updates.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hrygo/designgenie/client"
	"github.com/hrygo/designgenie/store"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "wizardctl",
	Short: "Operator CLI for designgenie sessions",
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a session from questionnaire answers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		answers, err := cmd.Flags().GetStringToString("answer")
		if err != nil {
			return err
		}
		session, err := client.New(serverURL).CreateSession(cmd.Context(), answers)
		if err != nil {
			return err
		}
		return printJSON(session)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		sessions, err := client.New(serverURL).ListSessions(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range sessions {
			profile := "-"
			if s.CustomerProfile != nil {
				profile = "set"
			}
			fmt.Printf("%s  created=%s  profile=%s  feedback=%d  moodboards=%d  recommendations=%d\n",
				s.ID, time.UnixMilli(s.Timestamp).Format(time.RFC3339), profile,
				len(s.Feedback), len(s.Moodboards), len(s.Recommendations))
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print one session document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := client.New(serverURL).GetSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(session)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <session-id>",
	Short: "Run profile and recommendation generation for a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := client.New(serverURL).Generate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(session)
	},
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback <session-id> <message>",
	Short: "Post a feedback message to a session",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fromUser, err := cmd.Flags().GetBool("from-user")
		if err != nil {
			return err
		}
		c := client.New(serverURL)
		doc, err := c.GetSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		session := client.NewSession(c, doc)
		message := session.AddFeedback(strings.Join(args[1:], " "), fromUser)
		session.Flush()
		return printJSON(message)
	},
}

var moodboardCmd = &cobra.Command{
	Use:   "moodboard <session-id>",
	Short: "Add a curated moodboard to a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		images, _ := cmd.Flags().GetStringArray("image")
		if len(images) < 1 || len(images) > 4 {
			return fmt.Errorf("a moodboard needs between 1 and 4 images, got %d", len(images))
		}
		c := client.New(serverURL)
		doc, err := c.GetSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		session := client.NewSession(c, doc)
		moodboard := session.AddMoodboard(client.MoodboardParams{
			Title:       title,
			Description: description,
			Images:      images,
			CreatedBy:   store.CreatorWizard,
		})
		session.Flush()
		return printJSON(moodboard)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <session-id>",
	Short: "Poll a session and print adopted updates until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c := client.New(serverURL)
		session := client.NewSession(c, &store.Session{ID: args[0]})
		watcher := client.NewWatcher(c, args[0], session,
			client.WithInterval(interval),
			client.WithStrictCompare(),
			client.WithOnUpdate(func(doc *store.Session) {
				fmt.Printf("[%s] update: feedback=%d moodboards=%d recommendations=%d\n",
					time.Now().Format(time.TimeOnly),
					len(doc.Feedback), len(doc.Moodboards), len(doc.Recommendations))
			}),
		)
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		fmt.Printf("watching session %s every %s\n", args[0], interval)

		select {
		case <-ctx.Done():
			watcher.Stop()
		case <-watcher.Done():
			if watcher.State() == client.StateDegraded {
				return fmt.Errorf("lost connectivity to %s, polling stopped", serverURL)
			}
		}
		return nil
	},
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8230", "designgenie server URL")

	createCmd.Flags().StringToString("answer", nil, "questionnaire answer as key=value, repeatable")
	feedbackCmd.Flags().Bool("from-user", false, "mark the message as end-user authored")
	moodboardCmd.Flags().String("title", "", "moodboard title")
	moodboardCmd.Flags().String("description", "", "moodboard description")
	moodboardCmd.Flags().StringArray("image", nil, "image URL, repeatable (1-4)")
	watchCmd.Flags().Duration("interval", client.DefaultPollInterval, "polling interval")

	rootCmd.AddCommand(createCmd, listCmd, showCmd, generateCmd, feedbackCmd, moodboardCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
