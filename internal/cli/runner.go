// Package cli は todoctl のサブコマンドを実装します。
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"luy-todo/backend/internal/mockserver"
	"luy-todo/backend/internal/models"
	"luy-todo/backend/internal/services"
)

// DefaultTokenTTL は token サブコマンドで発行するトークンの有効期間です。
const DefaultTokenTTL = 24 * time.Hour

// Options はサブコマンドの実行に必要な依存関係です。
type Options struct {
	Dispatcher  *mockserver.Dispatcher
	TodoService *services.TodoService
	// JWTService が nil の場合、token サブコマンドは失敗します。
	JWTService *services.JWTService
	// TodoPath はディスパッチャーに送るパスです。空なら "/todo" を使います。
	TodoPath string
	Now      func() time.Time
	Out      io.Writer
	Err      io.Writer
}

func (o *Options) defaults() {
	if o.TodoPath == "" {
		o.TodoPath = "/todo"
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
}

// Run はサブコマンドを実行し、終了コードを返します (0 成功, 1 エラー, 2 使い方の誤り)。
func Run(args []string, opt Options) int {
	opt.defaults()
	if len(args) == 0 {
		PrintHelp(opt.Err)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Out)
		return 0

	case "init":
		return maintenance(opt, "initialized", opt.TodoService.Initialize)

	case "clear":
		return maintenance(opt, "cleared", opt.TodoService.Clear)

	case "reset":
		return maintenance(opt, "reset to seed data", opt.TodoService.Reset)

	case "ls":
		if len(a) > 1 {
			fail(opt.Err, "usage: todoctl ls [query]")
			return 2
		}
		query := ""
		if len(a) == 1 {
			query = a[0]
		}
		if !seed(opt) {
			return 1
		}
		return doList(opt, query)

	case "add":
		if len(a) != 2 {
			fail(opt.Err, "usage: todoctl add <title> <description>")
			return 2
		}
		if !seed(opt) {
			return 1
		}
		return doAdd(opt, a[0], a[1])

	case "rm":
		if len(a) != 1 {
			fail(opt.Err, "usage: todoctl rm <id>")
			return 2
		}
		if _, err := strconv.Atoi(a[0]); err != nil {
			fail(opt.Err, "rm: not a number: "+a[0])
			return 2
		}
		if !seed(opt) {
			return 1
		}
		return doRemove(opt, a[0])

	case "token":
		if len(a) != 1 {
			fail(opt.Err, "usage: todoctl token <subject>")
			return 2
		}
		return doToken(opt, a[0])
	}

	fail(opt.Err, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Err)
	PrintHelp(opt.Err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `todoctl - maintenance tool for the to-do store

Usage:
  todoctl [-config file] <subcommand> [args]

Subcommands:
  init                       Write the seed list if the store is empty
  clear                      Remove the stored list
  reset                      Clear, then write the seed list
  ls [query]                 List items, optionally only those whose title
                             or description contains query (case-insensitive)
  add <title> <description>  Add a new item
  rm <id>                    Remove every item with the id
  token <subject>            Issue a bearer token (needs JWT_SECRET)

Examples:
  todoctl reset
  todoctl add "Buy milk" "Two litres, semi-skimmed"
  todoctl rm 2
`)
}

// seed はストアが空なら初期データを書き込みます。既存の値は上書きしません。
func seed(opt Options) bool {
	if err := opt.TodoService.Initialize(); err != nil {
		fail(opt.Err, err.Error())
		return false
	}
	return true
}

func maintenance(opt Options, done string, fn func() error) int {
	if err := fn(); err != nil {
		fail(opt.Err, err.Error())
		return 1
	}
	ok(opt.Out, done)
	return 0
}

func dispatch(opt Options, method, rawURL string, body []byte) (mockserver.Response, bool) {
	req, err := mockserver.NewRequest(method, rawURL, body)
	if err != nil {
		fail(opt.Err, err.Error())
		return mockserver.Response{}, false
	}
	resp := opt.Dispatcher.Dispatch(req)
	if !resp.OK() {
		msg := fmt.Sprintf("%d %s", resp.Status, resp.StatusText)
		if eb, isErr := resp.Body.(models.ErrorBody); isErr && eb.Details != "" && eb.Details != resp.StatusText {
			msg += ": " + eb.Details
		}
		fail(opt.Err, msg)
		return resp, false
	}
	return resp, true
}

func doList(opt Options, query string) int {
	resp, success := dispatch(opt, http.MethodGet, opt.TodoPath, nil)
	if !success {
		return 1
	}
	all, _ := resp.Body.([]models.Todo)
	todos := services.FilterTodos(all, query)

	lines := []string{
		fmt.Sprintf("%s  %s %d / %s %d",
			titleStyle.Render("Todos"),
			accentStyle.Render("Shown"), len(todos),
			accentStyle.Render("Total"), len(all)),
	}
	if query != "" {
		lines = append(lines, mutedStyle.Render("Search: "+query))
	}
	lines = append(lines, "")
	if len(todos) == 0 {
		lines = append(lines, mutedStyle.Render("(empty)"))
	}
	for _, t := range todos {
		lines = append(lines,
			fmt.Sprintf("%s %s", accentStyle.Render(fmt.Sprintf("#%d", t.ID)), titleStyle.Render(t.Title)),
			"   "+t.Description,
			"   "+mutedStyle.Render(t.AddedOn.Format(time.DateTime)),
		)
	}
	panel(opt.Out, lines)
	return 0
}

func doAdd(opt Options, title, description string) int {
	body, err := json.Marshal(map[string]string{
		"title":       title,
		"description": description,
		"addedOn":     opt.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		fail(opt.Err, err.Error())
		return 1
	}
	resp, success := dispatch(opt, http.MethodPost, opt.TodoPath, body)
	if !success {
		return 1
	}
	created, _ := resp.Body.(*models.Todo)
	if created == nil {
		ok(opt.Out, "added")
		return 0
	}
	ok(opt.Out, fmt.Sprintf("added #%d %s", created.ID, strings.TrimSpace(created.Title)))
	return 0
}

func doRemove(opt Options, id string) int {
	target := opt.TodoPath + "?" + url.Values{"id": {id}}.Encode()
	if _, success := dispatch(opt, http.MethodDelete, target, nil); !success {
		return 1
	}
	ok(opt.Out, "removed #"+id)
	return 0
}

func doToken(opt Options, subject string) int {
	if opt.JWTService == nil {
		fail(opt.Err, services.ErrJWTSecretNotSet.Error())
		return 1
	}
	token, err := opt.JWTService.GenerateToken(subject, DefaultTokenTTL)
	if err != nil {
		fail(opt.Err, err.Error())
		return 1
	}
	fmt.Fprintln(opt.Out, token)
	return 0
}
