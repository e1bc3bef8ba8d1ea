package outreach_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring/sourcing-service/internal/model"
	"hiring/sourcing-service/internal/outreach"
)

var sender = outreach.Sender{Name: "Jin", Title: "Talent Lead", Company: "Tokamak Network", Topic: "Ethereum L2"}

func candidate() model.Candidate {
	return model.Candidate{
		ID:            1,
		Username:      "ada-l",
		FullName:      "Ada Lovelace",
		Headline:      "Senior Solidity Engineer",
		Location:      "Seoul",
		SearchKeyword: "ethereum solidity developer",
	}
}

// ── Render ─────────────────────────────────────────────────────────────────

func TestRender_FillsKnownPlaceholders(t *testing.T) {
	tpl := model.OutreachTemplate{Body: "Hi {first_name} ({name}) from {location}, I'm {sender_name} at {company}."}
	got := outreach.Render(tpl, candidate(), sender)
	assert.Equal(t, "Hi Ada (Ada Lovelace) from Seoul, I'm Jin at Tokamak Network.", got)
}

func TestRender_UnknownPlaceholderStaysLiteral(t *testing.T) {
	tpl := model.OutreachTemplate{Body: "Hi {name}, see {calendar_link}"}
	got := outreach.Render(tpl, candidate(), sender)
	assert.Equal(t, "Hi Ada Lovelace, see {calendar_link}", got)
	assert.Equal(t, []string{"calendar_link"}, outreach.Unresolvable(tpl))
}

func TestRender_FallbackOrder(t *testing.T) {
	tpl := model.OutreachTemplate{Body: "{role}|{topic}|{location}"}

	c := candidate()
	assert.Equal(t, "Senior Solidity Engineer|ethereum solidity developer|Seoul", outreach.Render(tpl, c, sender))

	// headline missing: role falls to the search keyword
	c.Headline = ""
	assert.Equal(t, "ethereum solidity developer|ethereum solidity developer|Seoul", outreach.Render(tpl, c, sender))

	// keyword missing too: role is empty, topic falls to the sender constant
	c.SearchKeyword = ""
	assert.Equal(t, "|Ethereum L2|Seoul", outreach.Render(tpl, c, sender))

	// nothing at all
	c.Location = ""
	assert.Equal(t, "||", outreach.Render(tpl, c, outreach.Sender{}))
}

func TestRender_FieldPlaceholdersUseCandidateChain(t *testing.T) {
	tpl := model.OutreachTemplate{Body: "loc=[{location}] url=[{profile_url}] title=[{headline}]"}
	c := model.Candidate{Headline: "Solidity Engineer", SearchKeyword: "zk"}

	assert.Equal(t, "loc=[Solidity Engineer] url=[Solidity Engineer] title=[Solidity Engineer]",
		outreach.Render(tpl, c, sender))

	c.Headline = ""
	assert.Equal(t, "loc=[zk] url=[zk] title=[zk]", outreach.Render(tpl, c, sender))

	// sender constants never stand in for a candidate field
	c.SearchKeyword = ""
	assert.Equal(t, "loc=[] url=[] title=[]", outreach.Render(tpl, c, sender))

	c.Location, c.ProfileURL = "Busan", "https://example.com/in/x"
	assert.Equal(t, "loc=[Busan] url=[https://example.com/in/x] title=[]", outreach.Render(tpl, c, sender))
}

func TestRender_NameFallsBackToUsername(t *testing.T) {
	c := candidate()
	c.FullName = ""
	tpl := model.OutreachTemplate{Body: "{name}/{first_name}"}
	assert.Equal(t, "ada-l/ada-l", outreach.Render(tpl, c, sender))
}

func TestDefaultTemplates_ReadCleanlyWithSparseSender(t *testing.T) {
	sparse := outreach.Sender{Name: "Jin", Company: "Tokamak Network"}
	for _, tpl := range outreach.DefaultTemplates() {
		got := outreach.Render(tpl, candidate(), sparse)
		assert.NotContains(t, got, "  ", "template %s", tpl.ID)
		assert.NotContains(t, got, " ,", "template %s", tpl.ID)
		assert.NotContains(t, got, ", \n", "template %s", tpl.ID)
		assert.False(t, strings.HasSuffix(got, ", "), "template %s", tpl.ID)
	}
}

func TestRender_Idempotent(t *testing.T) {
	for _, tpl := range outreach.DefaultTemplates() {
		first := outreach.Render(tpl, candidate(), sender)
		second := outreach.Render(tpl, candidate(), sender)
		assert.Equal(t, first, second, "template %s", tpl.ID)
	}
}

// A candidate value that looks like a placeholder must not be expanded.
func TestRender_ValuesAreNotRescanned(t *testing.T) {
	c := candidate()
	c.Headline = "{sender_name}"
	tpl := model.OutreachTemplate{Body: "{headline}"}
	assert.Equal(t, "{sender_name}", outreach.Render(tpl, c, sender))
}

func TestDefaultTemplates_AllPlaceholdersKnown(t *testing.T) {
	for _, tpl := range outreach.DefaultTemplates() {
		assert.Empty(t, outreach.Unresolvable(tpl), "template %s", tpl.ID)
		assert.NotEmpty(t, tpl.Placeholders, "template %s", tpl.ID)
	}
}

func TestPlaceholders_DistinctInOrder(t *testing.T) {
	assert.Equal(t, []string{"name", "company"}, outreach.Placeholders("{name} {company} {name}"))
	assert.Nil(t, outreach.Placeholders("no tokens"))
}

// ── SelectEquivalent ───────────────────────────────────────────────────────

func TestSelectEquivalent_Sibling(t *testing.T) {
	tpls := outreach.DefaultTemplates()
	id, ok := outreach.SelectEquivalent("follow_up_en", outreach.LangKR, tpls)
	require.True(t, ok)
	assert.Equal(t, "follow_up_kr", id)

	id, ok = outreach.SelectEquivalent("follow_up_kr", outreach.LangEN, tpls)
	require.True(t, ok)
	assert.Equal(t, "follow_up_en", id)
}

func TestSelectEquivalent_FallsBackToFirstInLanguage(t *testing.T) {
	tpls := []model.OutreachTemplate{
		{ID: "a_en", GroupID: "a", Language: "en"},
		{ID: "b_en", GroupID: "b", Language: "en"},
		{ID: "c_kr", GroupID: "c", Language: "kr"},
		{ID: "d_kr", GroupID: "d", Language: "kr"},
	}
	id, ok := outreach.SelectEquivalent("b_en", "kr", tpls)
	require.True(t, ok)
	assert.Equal(t, "c_kr", id)

	id, ok = outreach.SelectEquivalent("", "en", tpls)
	require.True(t, ok)
	assert.Equal(t, "a_en", id)
}

func TestSelectEquivalent_NeverEmptyWhenLanguageHasTemplates(t *testing.T) {
	tpls := outreach.DefaultTemplates()
	for _, cur := range append([]string{"", "missing"}, ids(tpls)...) {
		for _, lang := range outreach.Languages {
			id, ok := outreach.SelectEquivalent(cur, lang, tpls)
			assert.True(t, ok)
			assert.NotEmpty(t, id, "from %q to %s", cur, lang)
		}
	}
}

func TestSelectEquivalent_NoTemplatesInLanguage(t *testing.T) {
	tpls := []model.OutreachTemplate{{ID: "a_en", GroupID: "a", Language: "en"}}
	id, ok := outreach.SelectEquivalent("a_en", "kr", tpls)
	assert.False(t, ok)
	assert.Empty(t, id)
}

func ids(tpls []model.OutreachTemplate) []string {
	out := make([]string, 0, len(tpls))
	for _, t := range tpls {
		out = append(out, t.ID)
	}
	return out
}

// ── Draft ──────────────────────────────────────────────────────────────────

func TestDraft_AutoSelectsFirstTemplate(t *testing.T) {
	d, err := outreach.NewDraft(candidate(), outreach.LangKR, outreach.DefaultTemplates(), sender)
	require.NoError(t, err)
	assert.Equal(t, "intro_kr", d.TemplateID)
	assert.Contains(t, d.Message(), "Ada Lovelace님")
}

func TestDraft_LanguageToggleKeepsGroupAndRerenders(t *testing.T) {
	d, err := outreach.NewDraft(candidate(), outreach.LangEN, outreach.DefaultTemplates(), sender)
	require.NoError(t, err)
	require.NoError(t, d.SelectTemplate("follow_up_en"))
	d.Edit("custom text")
	assert.True(t, d.Edited())

	require.NoError(t, d.SetLanguage(outreach.LangKR))
	assert.Equal(t, "follow_up_kr", d.TemplateID)
	assert.Equal(t, outreach.LangKR, d.Language)
	assert.False(t, d.Edited())
	assert.NotEqual(t, "custom text", d.Message())
}

func TestDraft_EditedTextIsWhatIsSent(t *testing.T) {
	d, err := outreach.NewDraft(candidate(), outreach.LangEN, outreach.DefaultTemplates(), sender)
	require.NoError(t, err)
	d.Edit("Hey Ada, quick question")
	assert.Equal(t, "Hey Ada, quick question", d.Message())
	require.NotNil(t, d.TemplateRef())
	assert.Equal(t, "intro_en", *d.TemplateRef())
}

func TestDraft_SetLanguageWithoutTemplatesKeepsState(t *testing.T) {
	tpls := []model.OutreachTemplate{{ID: "a_en", GroupID: "a", Language: "en", Body: "Hi {name}"}}
	d, err := outreach.NewDraft(candidate(), outreach.LangEN, tpls, sender)
	require.NoError(t, err)

	err = d.SetLanguage(outreach.LangKR)
	assert.ErrorIs(t, err, outreach.ErrNoTemplates)
	assert.Equal(t, "a_en", d.TemplateID)
	assert.Equal(t, outreach.LangEN, d.Language)
	assert.Equal(t, "Hi Ada Lovelace", d.Message())
}

func TestDraft_NoTemplates(t *testing.T) {
	d, err := outreach.NewDraft(candidate(), outreach.LangEN, nil, sender)
	require.NoError(t, err)
	assert.Nil(t, d.TemplateRef())
	assert.Empty(t, d.Message())
}

func TestDraft_RejectsUnknownLanguageAndTemplate(t *testing.T) {
	_, err := outreach.NewDraft(candidate(), "fr", nil, sender)
	assert.Error(t, err)

	d, err := outreach.NewDraft(candidate(), outreach.LangEN, outreach.DefaultTemplates(), sender)
	require.NoError(t, err)
	assert.ErrorIs(t, d.SelectTemplate("nope"), outreach.ErrUnknownTemplate)
}
