package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTemplateManager(t *testing.T) *TemplateManager {
	t.Helper()
	tm, err := NewTemplateManager(DefaultConfig())
	require.NoError(t, err)
	return tm
}

func TestRender_PropertyMatch(t *testing.T) {
	t.Parallel()
	tm := testTemplateManager(t)

	html, err := tm.Render("property_match", PropertyMatchData{
		TemplateData: TemplateData{
			UserName:  "Alice",
			ActionURL: "https://app.example.com/properties/p-1",
		},
		PropertyTitle: "Bright loft near the lake",
		City:          "Geneva",
		PriceText:     "CHF 1'250'000",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Alice")
	assert.Contains(t, html, "Bright loft near the lake")
	assert.Contains(t, html, "Geneva")
	assert.Contains(t, html, "https://app.example.com/properties/p-1")
}

// Listing titles are user input; markup in them must come out inert.
func TestRender_EscapesUserContent(t *testing.T) {
	t.Parallel()
	tm := testTemplateManager(t)

	html, err := tm.Render("property_match", PropertyMatchData{
		TemplateData:  TemplateData{UserName: "Alice"},
		PropertyTitle: `<script>alert("x")</script>`,
		City:          "Geneva",
		PriceText:     "CHF 1",
	})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRender_SubscriptionTemplates(t *testing.T) {
	t.Parallel()
	tm := testTemplateManager(t)

	html, err := tm.Render("subscription_expiring", SubscriptionData{
		TemplateData:  TemplateData{UserName: "Bob"},
		DaysRemaining: 5,
	})
	require.NoError(t, err)
	assert.Contains(t, html, "5")

	html, err = tm.Render("subscription_expired", SubscriptionData{
		TemplateData: TemplateData{UserName: "Bob"},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Bob")
}

func TestRender_UnknownTemplate(t *testing.T) {
	t.Parallel()
	tm := testTemplateManager(t)

	_, err := tm.Render("weekly_digest", nil)
	assert.Error(t, err)
}
