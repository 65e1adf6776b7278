package fundgz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/fundpush"
	"github.com/etnz/fundpush/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, body string) *Source {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Referer") != fundpush.Referer {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.URL.Path != "/js/163406.js" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return &Source{Client: srv.Client(), BaseURL: srv.URL}
}

func TestFetch(t *testing.T) {
	src := serve(t, `jsonpgz({"fundcode":"163406","name":"兴全合润混合(LOF)","jzrq":"2024-01-05","dwjz":"2.5000","gsz":"2.5120","gszzl":"0.48","gztime":"2024-01-08 15:00"});`)

	v, err := src.Fetch(context.Background(), "163406")
	require.NoError(t, err)
	assert.Equal(t, "163406", v.Code)
	assert.Equal(t, "兴全合润混合(LOF)", v.Name)
	assert.Equal(t, date.New(2024, 1, 5), v.Date)
	assert.Equal(t, "2.5000", v.NAV.Fixed(4))
	assert.Equal(t, "N/A", v.Change)
	assert.True(t, v.Valid)
}

func TestFetch_Change(t *testing.T) {
	src := serve(t, `jsonpgz({"fundcode":"163406","name":"F","jzrq":"2024-01-05","dwjz":"2.5","jzzl":"-0.12"});`)
	v, err := src.Fetch(context.Background(), "163406")
	require.NoError(t, err)
	assert.Equal(t, "-0.12", v.Change)
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name, body string
		noAnswer   bool
	}{
		{"empty call", `jsonpgz();`, true},
		{"html page", `<html>busy</html>`, true},
		{"broken json", `jsonpgz({"fundcode":);`, false},
		{"bad nav", `jsonpgz({"fundcode":"163406","name":"F","jzrq":"2024-01-05","dwjz":"--"});`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := serve(t, tt.body).Fetch(context.Background(), "163406")
			require.Error(t, err)
			assert.Equal(t, tt.noAnswer, errors.Is(err, fundpush.ErrNoAnswer))
		})
	}

	_, err := serve(t, "").Fetch(context.Background(), "000000")
	assert.ErrorContains(t, err, "404")
}
