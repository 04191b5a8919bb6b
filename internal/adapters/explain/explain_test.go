package explain_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/sharpscore/internal/adapters/explain"
	"github.com/okian/sharpscore/internal/domain/fingerprint"
	"github.com/okian/sharpscore/internal/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

type captured struct {
	auth string
	path string
	body map[string]any
}

func chatServer(status int, reply string, got *captured) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.auth = r.Header.Get("Authorization")
		got.path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
}

func TestChatExplainer(t *testing.T) {
	ctx := context.Background()

	Convey("Given a chat completions endpoint that answers", t, func() {
		var got captured
		srv := chatServer(http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"  Looks casual.  "}}]}`, &got)
		defer srv.Close()

		e, err := explain.NewChatExplainer(explain.ChatConfig{BaseURL: srv.URL + "/", APIKey: "k"})
		So(err, ShouldBeNil)

		Convey("When explaining a score", func() {
			text, err := e.Explain(ctx, 87, testutil.Records("u1", 2))
			So(err, ShouldBeNil)

			Convey("Then the trimmed reply is returned", func() {
				So(text, ShouldEqual, "Looks casual.")
			})

			Convey("Then the request carries the defaults and the prompt", func() {
				So(got.path, ShouldEqual, "/chat/completions")
				So(got.auth, ShouldEqual, "Bearer k")
				So(got.body["model"], ShouldEqual, explain.DefaultModel)
				So(got.body["max_tokens"], ShouldEqual, float64(explain.DefaultMaxTokens))
				msgs := got.body["messages"].([]any)
				So(len(msgs), ShouldEqual, 2)
				So(msgs[0].(map[string]any)["content"], ShouldEqual, explain.SystemPrompt)
				So(msgs[1].(map[string]any)["content"], ShouldContainSubstring, "score for this user: 87")
				So(msgs[1].(map[string]any)["content"], ShouldContainSubstring, `"userId":"u1"`)
			})
		})
	})

	Convey("Given an endpoint that fails", t, func() {
		var got captured
		srv := chatServer(http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, &got)
		defer srv.Close()
		e, _ := explain.NewChatExplainer(explain.ChatConfig{BaseURL: srv.URL, APIKey: "k"})

		Convey("Then the upstream message is surfaced", func() {
			_, err := e.Explain(ctx, 10, testutil.Records("u", 1))
			So(errors.Is(err, explain.ErrUpstream), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "bad key")
		})
	})

	Convey("Given an endpoint with no choices", t, func() {
		var got captured
		srv := chatServer(http.StatusOK, `{"choices":[]}`, &got)
		defer srv.Close()
		e, _ := explain.NewChatExplainer(explain.ChatConfig{BaseURL: srv.URL, APIKey: "k"})

		_, err := e.Explain(ctx, 10, nil)
		So(errors.Is(err, explain.ErrEmptyResponse), ShouldBeTrue)
	})

	Convey("Given a slow endpoint", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()
		e, _ := explain.NewChatExplainer(explain.ChatConfig{BaseURL: srv.URL, APIKey: "k", Timeout: 20 * time.Millisecond})

		Convey("Then the call times out as an upstream error", func() {
			_, err := e.Explain(ctx, 10, nil)
			So(errors.Is(err, explain.ErrUpstream), ShouldBeTrue)
		})
	})

	Convey("Given no API key", t, func() {
		_, err := explain.NewChatExplainer(explain.ChatConfig{})
		So(errors.Is(err, explain.ErrNoAPIKey), ShouldBeTrue)
	})
}

func TestStaticExplainer(t *testing.T) {
	Convey("Given the static explainer", t, func() {
		e := explain.NewStaticExplainer()

		Convey("When the records look automated", func() {
			recs := testutil.Records("u", 2)
			for i := range recs {
				recs[i].Headless = fingerprint.Bool(true)
				recs[i].IPDetails.IsDatacenter = fingerprint.Bool(true)
			}
			text, err := e.Explain(context.Background(), 12, recs)
			So(err, ShouldBeNil)

			Convey("Then the reason names the sharp signals", func() {
				So(text, ShouldContainSubstring, "scored 12")
				So(text, ShouldContainSubstring, "sharp")
				So(text, ShouldContainSubstring, "hidden browser in 2 of 2")
				So(text, ShouldContainSubstring, "datacenter")
			})
		})

		Convey("When the records look like home browsing", func() {
			text, err := e.Explain(context.Background(), 90, testutil.Records("u", 1))
			So(err, ShouldBeNil)
			So(text, ShouldContainSubstring, "casual")
			So(strings.Contains(text, "hidden browser"), ShouldBeFalse)
			So(text, ShouldContainSubstring, "412ms")
		})
	})
}

func TestBuildPrompt(t *testing.T) {
	Convey("Given a score and records", t, func() {
		p := explain.BuildPrompt(55, testutil.Records("u9", 3))

		Convey("Then every record is rendered on its own line", func() {
			So(strings.Count(p, `"userId":"u9"`), ShouldEqual, 3)
			So(p, ShouldContainSubstring, "4 to 5 sentences")
		})
	})
}
