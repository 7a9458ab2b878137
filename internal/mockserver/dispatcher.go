// Package mockserver は REST API を模擬するリクエストディスパッチャーです。
// メソッドとパスでルールを先頭から照合し、最初に一致したハンドラーを呼び出します。
package mockserver

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"luy-todo/backend/internal/models"
)

// TeapotStatusText は一致するルールがなかった場合のステータステキストです。
const TeapotStatusText = "Oh no! This request transformed the server into a teapot."

// ErrNoRoute は一致するルールがなかったことを表します。
var ErrNoRoute = errors.New("no handler registered for request")

// Request は模擬 HTTP リクエストです。Body は JSON のままです。
type Request struct {
	Method string
	Path   string
	Params url.Values
	Body   []byte
}

// NewRequest は rawURL のパスとクエリを分解して Request を作成します。
func NewRequest(method, rawURL string, body []byte) (Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Request{}, err
	}
	return Request{
		Method: strings.ToUpper(method),
		Path:   u.Path,
		Params: u.Query(),
		Body:   body,
	}, nil
}

// Response は模擬 HTTP レスポンスです。
// 失敗時は Body に models.ErrorBody が入り、Err に原因のエラーが入ります。
type Response struct {
	Status     int
	StatusText string
	Body       interface{}
	Err        error
}

// OK は成功レスポンスかどうかを返します。
func (r Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

func errorResponse(status int, code, text string, err error) Response {
	return Response{
		Status:     status,
		StatusText: text,
		Body:       models.ErrorBody{Error: code, Details: text},
		Err:        err,
	}
}

// HandlerFunc はルールに一致したリクエストを処理します。
type HandlerFunc func(Request) Response

// Rule はメソッド、パス、ハンドラーの組です。
type Rule struct {
	Method  string
	Path    PathMatcher
	Handler HandlerFunc
}

// Config はディスパッチャーの設定です。
type Config struct {
	Rules  []Rule
	Logger *log.Logger
}

// Dispatcher はリクエストをルール表に従って振り分けます。
// Dispatch は1回ずつ直列に実行され、読み込みから書き戻しまでが他の呼び出しと混ざりません。
type Dispatcher struct {
	mu     sync.Mutex
	rules  []Rule
	logger *log.Logger
}

// NewDispatcher は新しいDispatcherを作成します。ルール表はコピーされます。
func NewDispatcher(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	rules := make([]Rule, len(cfg.Rules))
	copy(rules, cfg.Rules)
	return &Dispatcher{rules: rules, logger: logger}
}

// Rules は登録されているルール表のコピーを返します。
func (d *Dispatcher) Rules() []Rule {
	out := make([]Rule, len(d.rules))
	copy(out, d.rules)
	return out
}

// Dispatch は最初に一致したルールのハンドラーを呼び出します。
// 一致しなければ 418 を返します。
func (d *Dispatcher) Dispatch(req Request) Response {
	d.mu.Lock()
	defer d.mu.Unlock()

	method := strings.ToUpper(req.Method)
	for _, rule := range d.rules {
		if rule.Method == method && rule.Path.Match(req.Path) {
			return rule.Handler(req)
		}
	}

	d.logger.Warn("Could not find handler for request", "method", method, "path", req.Path)
	return Response{
		Status:     http.StatusTeapot,
		StatusText: TeapotStatusText,
		Body:       models.ErrorBody{Error: "no_route", Details: TeapotStatusText},
		Err:        ErrNoRoute,
	}
}
