package control

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Protocol errors.
var (
	ErrEmptyRequest = errors.New("empty request")
	ErrBadRequest   = errors.New("bad request")
	ErrTimeout      = errors.New("host did not answer in time")
	ErrClosed       = errors.New("control server closed")
)

// MaxLineSize bounds one request or response line.
const MaxLineSize = 64 * 1024

// Request is one parsed request line.
type Request struct {
	// Command is the command-line text, without the leading ':'.
	Command string
	// ID is the raw JSON value of the request's "id" field, echoed in the
	// response. Empty for plain-text requests.
	ID string
}

// ParseRequest accepts either plain command text or a JSON object of the
// form {"cmd": "goto 10 20", "id": 7}. A leading ':' is dropped.
func ParseRequest(line string) (Request, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Request{}, ErrEmptyRequest
	}
	var req Request
	if strings.HasPrefix(line, "{") {
		if !gjson.Valid(line) {
			return Request{}, fmt.Errorf("%w: malformed JSON", ErrBadRequest)
		}
		cmd := gjson.Get(line, "cmd")
		if cmd.Type != gjson.String {
			return Request{}, fmt.Errorf("%w: \"cmd\" must be a string", ErrBadRequest)
		}
		req.Command = cmd.String()
		if id := gjson.Get(line, "id"); id.Exists() {
			req.ID = id.Raw
		}
	} else {
		req.Command = line
	}
	req.Command = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(req.Command), ":"))
	if req.Command == "" {
		return Request{}, ErrEmptyRequest
	}
	return req, nil
}

// EncodeRequest builds the JSON request line sent by Client, without the
// trailing newline.
func EncodeRequest(command string) ([]byte, error) {
	return sjson.SetBytes([]byte(`{}`), "cmd", command)
}

// Response reports the outcome of a request and the editor state after it.
type Response struct {
	OK      bool
	Message string
	Mode    string
	CursorX int
	CursorY int
	Quit    bool
	ID      string
}

// Encode renders the response as a single JSON line without the trailing
// newline.
func (r Response) Encode() ([]byte, error) {
	out := []byte(`{}`)
	var err error
	set := func(path string, v any) {
		if err == nil {
			out, err = sjson.SetBytes(out, path, v)
		}
	}
	if r.ID != "" {
		if err == nil {
			out, err = sjson.SetRawBytes(out, "id", []byte(r.ID))
		}
	}
	set("ok", r.OK)
	set("message", r.Message)
	set("mode", r.Mode)
	set("cursor.x", r.CursorX)
	set("cursor.y", r.CursorY)
	if r.Quit {
		set("quit", true)
	}
	return out, err
}

// DecodeResponse parses a response line.
func DecodeResponse(line []byte) (Response, error) {
	if !gjson.ValidBytes(line) {
		return Response{}, fmt.Errorf("%w: malformed response", ErrBadRequest)
	}
	res := gjson.ParseBytes(line)
	if !res.Get("ok").Exists() {
		return Response{}, fmt.Errorf("%w: response has no \"ok\" field", ErrBadRequest)
	}
	r := Response{
		OK:      res.Get("ok").Bool(),
		Message: res.Get("message").String(),
		Mode:    res.Get("mode").String(),
		CursorX: int(res.Get("cursor.x").Int()),
		CursorY: int(res.Get("cursor.y").Int()),
		Quit:    res.Get("quit").Bool(),
	}
	if id := res.Get("id"); id.Exists() {
		r.ID = id.Raw
	}
	return r, nil
}

func errorResponse(err error) Response {
	return Response{OK: false, Message: err.Error()}
}
