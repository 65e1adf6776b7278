package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// WeCom pushes an application message to every member of an enterprise WeChat.
//
// The API is usually reached through a proxy with a fixed IP, URL is the base of that proxy.
type WeCom struct {
	URL     string
	CorpID  string
	AgentID string
	Secret  string
	Client  *http.Client
}

func (w *WeCom) Name() string { return "wecom" }

// wecomStatus is embedded in every WeCom answer, ErrCode is 0 on success.
type wecomStatus struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

func (s wecomStatus) err(step string) error {
	if s.ErrCode == 0 {
		return nil
	}
	return fmt.Errorf("wecom %s: errcode %d: %s", step, s.ErrCode, s.ErrMsg)
}

type wecomMessage struct {
	ToUser  string `json:"touser"`
	MsgType string `json:"msgtype"`
	AgentID int    `json:"agentid"`
	Text    struct {
		Content string `json:"content"`
	} `json:"text"`
	Safe int `json:"safe"`
}

// Post gets an access token then sends a text message made of title and body.
func (w *WeCom) Post(ctx context.Context, title, body string) error {
	if w.URL == "" || w.CorpID == "" || w.Secret == "" {
		return fmt.Errorf("wecom needs url, corp_id and secret: %w", ErrMisconfigured)
	}
	agent, err := strconv.Atoi(w.AgentID)
	if err != nil {
		return fmt.Errorf("wecom agent_id %q is not a number: %w", w.AgentID, ErrMisconfigured)
	}
	base := strings.TrimRight(w.URL, "/")

	q := url.Values{"corpid": {w.CorpID}, "corpsecret": {w.Secret}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/cgi-bin/gettoken?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	var token struct {
		wecomStatus
		AccessToken string `json:"access_token"`
	}
	if err := doJSON(w.Client, req, &token); err != nil {
		return err
	}
	if err := token.err("gettoken"); err != nil {
		return err
	}

	msg := wecomMessage{ToUser: "@all", MsgType: "text", AgentID: agent}
	msg.Text.Content = title + "\n\n" + body
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	addr := base + "/cgi-bin/message/send?access_token=" + url.QueryEscape(token.AccessToken)
	req, err = http.NewRequestWithContext(ctx, http.MethodPost, addr, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	var sent wecomStatus
	if err := doJSON(w.Client, req, &sent); err != nil {
		return err
	}
	return sent.err("send")
}
