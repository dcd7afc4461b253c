package fetch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/salescrm/internal/client/fetch"
	"github.com/geocoder89/salescrm/internal/domain/customer"
	"github.com/geocoder89/salescrm/internal/mockdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGet_DecodesArray(t *testing.T) {
	items := []customer.Customer{{ID: "c-1", Name: "Ann"}, {ID: "c-2", Name: "Bob"}}
	b, err := json.Marshal(items)
	require.NoError(t, err)

	srv := apiServer(t, http.StatusOK, string(b))

	res := fetch.Get[customer.Customer](context.Background(), srv.Client(), srv.URL, fetch.PathCustomers, "t1")
	require.Nil(t, res.Err)
	assert.Equal(t, fetch.SourceRemote, res.Source)
	assert.Len(t, res.Items, 2)
}

func TestGet_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		token      string
		wantStatus int
	}{
		{"server error", http.StatusInternalServerError, `{}`, "t1", http.StatusInternalServerError},
		{"missing token", http.StatusOK, `[]`, "", http.StatusUnauthorized},
		{"object instead of array", http.StatusOK, `{"items":[]}`, "t1", 0},
		{"garbage", http.StatusOK, `not json`, "t1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apiServer(t, tt.status, tt.body)

			res := fetch.Get[customer.Customer](context.Background(), srv.Client(), srv.URL, fetch.PathCustomers, tt.token)
			require.NotNil(t, res.Err)
			assert.Equal(t, tt.wantStatus, res.Err.Status)
			assert.Equal(t, fetch.PathCustomers, res.Err.Path)
			assert.Empty(t, res.Items)
		})
	}
}

func TestFetcher_Policy(t *testing.T) {
	srv := apiServer(t, http.StatusBadGateway, `upstream down`)

	t.Run("demo mode substitutes mock data", func(t *testing.T) {
		f := fetch.NewFetcher(srv.URL, srv.Client(), fetch.Policy{DemoMode: true}, nil)

		res := f.Customers(context.Background(), "t1")
		require.NotNil(t, res.Err)
		assert.Equal(t, fetch.SourceFallback, res.Source)
		assert.Equal(t, mockdata.Customers(), res.Items)
	})

	t.Run("demo mode off yields nothing", func(t *testing.T) {
		f := fetch.NewFetcher(srv.URL, srv.Client(), fetch.Policy{}, nil)

		res := f.Tasks(context.Background(), "t1")
		require.NotNil(t, res.Err)
		assert.Equal(t, fetch.SourceNone, res.Source)
		assert.Empty(t, res.Items)
	})
}

func TestFetcher_SuccessIgnoresPolicy(t *testing.T) {
	srv := apiServer(t, http.StatusOK, `[]`)
	f := fetch.NewFetcher(srv.URL, srv.Client(), fetch.Policy{DemoMode: true}, nil)

	res := f.Opportunities(context.Background(), "t1")
	assert.Nil(t, res.Err)
	assert.Equal(t, fetch.SourceRemote, res.Source)
	assert.Empty(t, res.Items)
}
