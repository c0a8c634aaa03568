package cmd

import (
	"context"
	"fmt"

	"list-sync/core/config"
	"list-sync/core/credentials"
	"list-sync/core/twitter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for lists create
	listName        string
	listDescription string
	listPrivate     bool
)

// listsCmd is the parent command for list management.
var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Manage the lists kept in sync",
}

// listsCreateCmd creates a list and prints its id.
var listsCreateCmd = &cobra.Command{
	Use:   "create [credentials-file]",
	Short: "Create a list to use as a sync target",
	Long: `Create a list owned by the authenticated user and print its id.

Put the id into sync.following_list_id or sync.mutuals_list_id
(SYNC_FOLLOWING_LIST_ID / SYNC_MUTUALS_LIST_ID).

Examples:
  list-sync lists create --name "Feed (Auto)" --private`,
	Args: cobra.MaximumNArgs(1),
	RunE: runListsCreate,
}

func init() {
	listsCreateCmd.Flags().StringVar(&listName, "name", "", "Name of the list")
	listsCreateCmd.Flags().StringVar(&listDescription, "description", "", "Description of the list")
	listsCreateCmd.Flags().BoolVar(&listPrivate, "private", false, "Create a private list")
	_ = listsCreateCmd.MarkFlagRequired("name")

	listsCmd.AddCommand(listsCreateCmd)
	RootCmd.AddCommand(listsCmd)
}

func runListsCreate(cmd *cobra.Command, args []string) error {
	return runLogged("lists create", func(cfg *config.Config, l *zap.Logger) error {
		return createList(cmd, args, cfg, l)
	})
}

func createList(cmd *cobra.Command, args []string, cfg *config.Config, l *zap.Logger) error {
	creds, err := credentials.Load(credentialsPath(cfg, args))
	if err != nil {
		return err
	}

	client, err := twitter.NewClient(cfg.Twitter, creds, cfg.Retry, l)
	if err != nil {
		return fmt.Errorf("failed to create api client: %w", err)
	}

	list, err := client.CreateList(context.Background(), twitter.CreateListInput{
		Name:        listName,
		Description: listDescription,
		Private:     listPrivate,
	})
	if err != nil {
		return fmt.Errorf("failed to create list: %w", err)
	}

	l.Info("Created list", zap.String("id", list.ID), zap.String("name", list.Name))
	addColor.Fprintf(cmd.OutOrStdout(), "%s\n", list.ID)
	return nil
}
