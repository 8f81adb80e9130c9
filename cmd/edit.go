package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spiffler33/quill/internal/config"
	"github.com/spiffler33/quill/internal/editor"
	"github.com/spiffler33/quill/internal/render"
)

var editPost string

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the interactive editing session",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStore(cmd)
		if err != nil {
			return err
		}

		scanner := bufio.NewScanner(os.Stdin)
		terminal := render.NewTerminal(os.Stdout)
		reg := newRegistry(st)
		session := editor.NewSession(st, reg, terminal,
			&cliNavigator{}, &stdinConfirmer{scanner: scanner}, autosaveDelay())

		if editPost != "" {
			if err := session.EditPost(cmd.Context(), editPost); err != nil {
				fmt.Printf(config.ErrLoadPostFmt+"\n", err)
				if err := session.Start(cmd.Context()); err != nil {
					return err
				}
			}
		} else if err := session.Start(cmd.Context()); err != nil {
			return fmt.Errorf(config.ErrLoadDraftsFmt, err)
		}
		terminal.Redraw()

		return runLoop(cmd, scanner, session, terminal)
	},
}

func init() {
	editCmd.Flags().StringVar(&editPost, "post", "", "published post filename to edit")
	rootCmd.AddCommand(editCmd)
}

const editHelp = `commands:
  t <title>   set the title
  a <text>    append a line to the body
  clear       clear the body
  s <n>       select draft n from the list
  new         start a new draft
  save        save now
  publish     publish the draft (or update the post)
  delete      delete the active item
  r           redraw
  q           quit`

// runLoop drives the session from stdin commands until EOF or quit. Plain
// typing maps onto the edit-buffer-changed command; everything else is one of
// the explicit lifecycle commands.
func runLoop(cmd *cobra.Command, scanner *bufio.Scanner, session *editor.Session, terminal *render.Terminal) error {
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			// Flush pending edits on the way out.
			return session.Save(cmd.Context())
		}

		line := strings.TrimSpace(scanner.Text())
		verb, rest, _ := strings.Cut(line, " ")

		var err error
		switch verb {
		case "":
			continue
		case "q", "quit":
			return session.Save(cmd.Context())
		case "h", "help":
			fmt.Println(editHelp)
		case "r":
			terminal.Redraw()
		case "t":
			_, body := session.Buffer()
			session.SetBuffer(rest, body)
		case "a":
			title, body := session.Buffer()
			if body == "" {
				session.SetBuffer(title, rest)
			} else {
				session.SetBuffer(title, body+"\n"+rest)
			}
		case "clear":
			title, _ := session.Buffer()
			session.SetBuffer(title, "")
		case "new":
			session.CreateNew()
			terminal.Redraw()
		case "s":
			err = selectEntry(cmd, rest, session, terminal)
		case "save":
			err = session.Save(cmd.Context())
		case "publish":
			err = session.Publish(cmd.Context())
			terminal.Redraw()
		case "delete":
			err = session.Delete(cmd.Context())
			terminal.Redraw()
		default:
			fmt.Printf("unknown command %q (h for help)\n", verb)
		}

		if err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

func selectEntry(cmd *cobra.Command, arg string, session *editor.Session, terminal *render.Terminal) error {
	entries := session.Entries()
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 || n > len(entries) {
		return fmt.Errorf("no such draft: %s", arg)
	}
	if err := session.Select(cmd.Context(), entries[n-1].ID); err != nil {
		return err
	}
	terminal.Redraw()
	return nil
}

// stdinConfirmer prompts on the terminal for destructive actions.
type stdinConfirmer struct {
	scanner *bufio.Scanner
}

func (c *stdinConfirmer) Confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	if !c.scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(c.scanner.Text()))
	return answer == "y" || answer == "yes"
}

// cliNavigator prints navigation requests; a web shell would follow them.
type cliNavigator struct{}

func (n *cliNavigator) GoToPost(filename string) {
	fmt.Printf("-> /post.html?p=%s\n", filename)
}

func (n *cliNavigator) GoHome() {
	fmt.Println("-> /")
}
