package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/draftpad/draftpad/internal/docs"
)

// --- doc ---

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Create, list, read, write, and delete documents",
}

var docCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new document",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		folder, _ := cmd.Flags().GetString("folder")

		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		doc, err := e.service.CreateDocument(owner, title, folder)
		if err != nil {
			return err
		}
		return printJSON(doc)
	},
}

var docLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List documents, pinned first then most recently updated",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		tag, _ := cmd.Flags().GetString("tag")

		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		list, err := e.service.ListDocuments(owner, tag)
		if err != nil {
			return err
		}
		return printJSON(list)
	},
}

var docCatCmd = &cobra.Command{
	Use:   "cat <id>",
	Short: "Print a document's markdown content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		text, err := e.service.GetContent(owner, args[0])
		if err != nil {
			return err
		}
		fmt.Print(text)
		return nil
	},
}

var docWriteCmd = &cobra.Command{
	Use:   "write <id>",
	Short: "Replace a document's content from --file or stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("file")

		var data []byte
		var err error
		if file != "" {
			data, err = os.ReadFile(file)
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		return e.service.SetContent(owner, args[0], string(data))
	},
}

var docUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update title, folder, pinned, or archived",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}

		var patch docs.MetaPatch
		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			patch.Title = &title
		}
		if cmd.Flags().Changed("folder") {
			folder, _ := cmd.Flags().GetString("folder")
			patch.FolderID = &folder
		}
		if cmd.Flags().Changed("pinned") {
			pinned, _ := cmd.Flags().GetBool("pinned")
			patch.IsPinned = &pinned
		}
		if cmd.Flags().Changed("archived") {
			archived, _ := cmd.Flags().GetBool("archived")
			patch.IsArchived = &archived
		}

		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		doc, err := e.service.UpdateDocumentMeta(owner, args[0], patch)
		if err != nil {
			return err
		}
		return printJSON(doc)
	},
}

var docRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a document, its versions, and its content file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		return e.service.DeleteDocument(owner, args[0])
	},
}

// --- folder ---

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage folders",
}

var folderCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		parent, _ := cmd.Flags().GetString("parent")

		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		folder, err := e.service.CreateFolder(owner, args[0], parent)
		if err != nil {
			return err
		}
		return printJSON(folder)
	},
}

var folderLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List folders by sort order, then name",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		list, err := e.service.ListFolders(owner)
		if err != nil {
			return err
		}
		return printJSON(list)
	},
}

var folderUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Rename, move, or reorder a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}

		var patch docs.FolderPatch
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			patch.Name = &name
		}
		if cmd.Flags().Changed("parent") {
			parent, _ := cmd.Flags().GetString("parent")
			patch.ParentID = &parent
		}
		if cmd.Flags().Changed("sort-order") {
			order, _ := cmd.Flags().GetInt("sort-order")
			patch.SortOrder = &order
		}

		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		folder, err := e.service.UpdateFolder(owner, args[0], patch)
		if err != nil {
			return err
		}
		return printJSON(folder)
	},
}

var folderRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a folder, detaching its documents and subfolders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		return e.service.DeleteFolder(owner, args[0])
	},
}

// --- tag ---

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags and document-tag links",
}

var tagCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		color, _ := cmd.Flags().GetString("color")

		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		tag, err := e.service.CreateTag(owner, args[0], color)
		if err != nil {
			return err
		}
		return printJSON(tag)
	},
}

var tagLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List tags by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		list, err := e.service.ListTags(owner)
		if err != nil {
			return err
		}
		return printJSON(list)
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a tag and its document links",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		return e.service.DeleteTag(owner, args[0])
	},
}

var tagAttachCmd = &cobra.Command{
	Use:   "attach <document-id> <tag-id>",
	Short: "Attach a tag to a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		return e.service.TagDocument(owner, args[0], args[1])
	},
}

var tagDetachCmd = &cobra.Command{
	Use:   "detach <document-id> <tag-id>",
	Short: "Detach a tag from a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		return e.service.UntagDocument(owner, args[0], args[1])
	},
}

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search (FTS5 syntax: hello*, term1 term2, ...)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		hits, err := e.service.Search(owner, args[0], limit)
		if err != nil {
			return err
		}
		return printJSON(hits)
	},
}

// --- versions ---

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Inspect and create document version snapshots",
}

var versionsLsCmd = &cobra.Command{
	Use:   "ls <document-id>",
	Short: "List a document's versions, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		list, err := e.service.ListVersions(owner, args[0])
		if err != nil {
			return err
		}
		return printJSON(list)
	},
}

var versionsShowCmd = &cobra.Command{
	Use:   "show <version-id>",
	Short: "Print a version's full content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		v, err := e.service.GetVersion(owner, args[0])
		if err != nil {
			return err
		}
		fmt.Print(v.Content)
		return nil
	},
}

var versionsSnapCmd = &cobra.Command{
	Use:   "snap <document-id>",
	Short: "Force a snapshot of the committed content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOwner(); err != nil {
			return err
		}
		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		created, err := e.service.SnapshotNow(owner, args[0])
		if err != nil {
			return err
		}
		if created {
			fmt.Println("snapshot created")
		} else {
			fmt.Println("no changes")
		}
		return nil
	},
}

// --- reconcile ---

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Repair journaled inconsistencies; --rebuild-index re-derives the search index",
	RunE: func(cmd *cobra.Command, args []string) error {
		rebuild, _ := cmd.Flags().GetBool("rebuild-index")

		e, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		if rebuild {
			if err := e.worker.RebuildIndex(cmd.Context()); err != nil {
				return err
			}
		}
		_, err = e.worker.RunOnce(cmd.Context())
		return err
	},
}

func init() {
	docCreateCmd.Flags().String("title", "", "document title (defaults to Untitled)")
	docCreateCmd.Flags().String("folder", "", "folder id")
	docLsCmd.Flags().String("tag", "", "only documents carrying this tag id")
	docWriteCmd.Flags().String("file", "", "read content from this file instead of stdin")
	docUpdateCmd.Flags().String("title", "", "new title")
	docUpdateCmd.Flags().String("folder", "", "new folder id (empty = root)")
	docUpdateCmd.Flags().Bool("pinned", false, "pin or unpin")
	docUpdateCmd.Flags().Bool("archived", false, "archive or unarchive")
	docCmd.AddCommand(docCreateCmd, docLsCmd, docCatCmd, docWriteCmd, docUpdateCmd, docRmCmd)

	folderCreateCmd.Flags().String("parent", "", "parent folder id")
	folderUpdateCmd.Flags().String("name", "", "new name")
	folderUpdateCmd.Flags().String("parent", "", "new parent id (empty = root)")
	folderUpdateCmd.Flags().Int("sort-order", 0, "new sort order")
	folderCmd.AddCommand(folderCreateCmd, folderLsCmd, folderUpdateCmd, folderRmCmd)

	tagCreateCmd.Flags().String("color", "", "display color")
	tagCmd.AddCommand(tagCreateCmd, tagLsCmd, tagRmCmd, tagAttachCmd, tagDetachCmd)

	searchCmd.Flags().Int("limit", 0, "max results (default and cap 50)")

	versionsCmd.AddCommand(versionsLsCmd, versionsShowCmd, versionsSnapCmd)

	reconcileCmd.Flags().Bool("rebuild-index", false, "clear and re-derive the full-text index")
}
