package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/engblog/scaffold"
)

var postFlags struct {
	slug, description, date string
	tags, authors           []string
	draft                   bool
}

var newPostCmd = &cobra.Command{
	Use:   "new-post <title>",
	Short: "Create a new post under the content directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path, err := scaffold.NewPost(cfg.ContentDir, scaffold.PostData{
			Title:       args[0],
			Slug:        postFlags.slug,
			Description: postFlags.description,
			Date:        postFlags.date,
			Tags:        postFlags.tags,
			Authors:     postFlags.authors,
			Draft:       postFlags.draft,
		})
		if errors.Is(err, scaffold.ErrExists) {
			return fmt.Errorf("that post already exists: %w", err)
		}
		if err != nil {
			return err
		}
		cmd.Printf("created %s\n", path)
		return nil
	},
}

var authorFlags struct {
	slug, occupation, company, email, github string
}

var newAuthorCmd = &cobra.Command{
	Use:   "new-author <name>",
	Short: "Create a new author profile under the content directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path, err := scaffold.NewAuthor(cfg.ContentDir, scaffold.AuthorData{
			Name:       args[0],
			Slug:       authorFlags.slug,
			Occupation: authorFlags.occupation,
			Company:    authorFlags.company,
			Email:      authorFlags.email,
			GitHub:     authorFlags.github,
		})
		if err != nil {
			return err
		}
		cmd.Printf("created %s\n", path)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Create a new site skeleton",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := scaffold.NewSite(args[0], scaffold.SiteData{})
		for _, f := range files {
			cmd.Printf("  created %s\n", f)
		}
		if err != nil {
			return err
		}
		cmd.Printf("\nDone! Next steps:\n\n  cd %s\n  engblog serve\n\n", args[0])
		cmd.Println("Set ADMIN_PASSWORD and ADMIN_SESSION_SECRET in .env to enable the admin dashboard.")
		return nil
	},
}

func init() {
	f := newPostCmd.Flags()
	f.StringVar(&postFlags.slug, "slug", "", "post slug (default derived from the title)")
	f.StringVar(&postFlags.description, "description", "", "post description")
	f.StringVar(&postFlags.date, "date", "", "publication date, yyyy-mm-dd (default today)")
	f.StringSliceVar(&postFlags.tags, "tag", nil, "tag (repeatable or comma separated)")
	f.StringSliceVar(&postFlags.authors, "author", nil, "author slug (repeatable or comma separated)")
	f.BoolVar(&postFlags.draft, "draft", false, "mark the post as a draft")

	a := newAuthorCmd.Flags()
	a.StringVar(&authorFlags.slug, "slug", "", "author slug (default derived from the name)")
	a.StringVar(&authorFlags.occupation, "occupation", "", "occupation")
	a.StringVar(&authorFlags.company, "company", "", "company")
	a.StringVar(&authorFlags.email, "email", "", "email address")
	a.StringVar(&authorFlags.github, "github", "", "GitHub profile URL")
}
