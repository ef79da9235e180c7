package ai_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"resume-builder/pkg/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summaryReq() ai.SummaryRequest {
	return ai.SummaryRequest{
		Basics: ai.Basics{Name: "Ada", JobTitle: "Engineer"},
		Skills: []string{"Go", "SQL"},
	}
}

func TestGenerateSummary_CachesIdenticalInput(t *testing.T) {
	t.Parallel()

	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&hits, 1)
		fmt.Fprintf(w, `{"text":"generated %d"}`, n)
	}))
	defer srv.Close()

	c := ai.NewClient(srv.URL, 2*time.Second, nil)
	ctx := context.Background()

	first, err := c.GenerateSummary(ctx, summaryReq())
	require.NoError(t, err)
	assert.Equal(t, "generated 1", first)

	// Identical input is served from the content-hash cache.
	second, err := c.GenerateSummary(ctx, summaryReq())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt64(&hits))

	// Changing the input misses the cache.
	changed := summaryReq()
	changed.Skills = append(changed.Skills, "Redis")
	_, err = c.GenerateSummary(ctx, changed)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt64(&hits))
}

func TestGenerateSummary_FallsBackOnServiceError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := ai.NewClient(srv.URL, 2*time.Second, nil)
	text, err := c.GenerateSummary(context.Background(), summaryReq())
	require.NoError(t, err)
	assert.Equal(t, ai.FallbackSummary(summaryReq()), text)
	assert.Contains(t, text, "Engineer")
}

func TestGenerateSummary_FallsBackOnEmptyText(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"text":"   "}`)
	}))
	defer srv.Close()

	c := ai.NewClient(srv.URL, 2*time.Second, nil)
	text, err := c.GenerateSummary(context.Background(), summaryReq())
	require.NoError(t, err)
	assert.Equal(t, ai.FallbackSummary(summaryReq()), text)
}

func TestGenerateProjectDescription_FallsBack(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	req := ai.ProjectRequest{
		ProjectName: "Pipeline", Technologies: []string{"Go", "PostgreSQL"},
		ClientName: "Acme", TeamSize: 4,
	}
	c := ai.NewClient(srv.URL, 2*time.Second, nil)
	text, err := c.GenerateProjectDescription(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, text, "Pipeline")
	assert.Contains(t, text, "built with Go, PostgreSQL")
	assert.Contains(t, text, "team of 4")
}

func TestFallbackSummary(t *testing.T) {
	t.Parallel()

	fresher := ai.FallbackSummary(ai.SummaryRequest{
		Basics: ai.Basics{JobTitle: "Analyst"}, IsFresher: true,
	})
	assert.True(t, strings.HasPrefix(fresher, "Motivated Analyst"))

	experienced := ai.FallbackSummary(ai.SummaryRequest{Basics: ai.Basics{JobTitle: "Analyst"}})
	assert.True(t, strings.HasPrefix(experienced, "Experienced Analyst"))

	noRole := ai.FallbackSummary(ai.SummaryRequest{})
	assert.Contains(t, noRole, "professional")

	// Skill lists are capped at five in the composed text.
	many := ai.FallbackSummary(ai.SummaryRequest{
		Skills: []string{"s1", "s2", "s3", "s4", "s5", "s6"},
	})
	assert.Contains(t, many, "s1, s2, s3, s4, s5")
	assert.NotContains(t, many, "s6")
}

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	cache := ai.NewMemoryCache()
	ctx := context.Background()

	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)

	cache.Set(ctx, "k", "v")
	got, ok := cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}
