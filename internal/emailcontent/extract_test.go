package emailcontent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleCampaign = `<!DOCTYPE html>
<html>
<head><title>June Update</title></head>
<body>
<!-- templateHeader -->
<table><tr><td><img src="logo.png" alt="Logo"></td></tr></table>
<!-- /templateHeader -->
<table>
  <tr>
    <td class="mcnTextContent" valign="top">
      <h1>Summer Reading</h1>
      <p>The new book is &nbsp;finally&nbsp; out.</p>
      <p>Here&#39;s what readers are saying.</p>
      <p>A third paragraph that should not appear.</p>
    </td>
  </tr>
</table>
<img src="cover.jpg" alt="Cover">
<img alt="Signing" src="signing.jpg">
<img src="cover.jpg" alt="Cover again">
<!-- templateFooter -->
<p>Unsubscribe</p>
<!-- /templateFooter -->
<!-- canspamBarWrapper -->
<p>123 Main St</p>
<!-- /canspamBarWrapper -->
</body>
</html>`

func TestExtractSummary_FullTemplate(t *testing.T) {
	sum := ExtractSummary(sampleCampaign)

	assert.Equal(t, "Summer Reading", sum.Title)
	assert.Equal(t, "The new book is  finally  out. Here's what readers are saying.", sum.Excerpt)
	assert.Equal(t, []Media{
		{Src: "logo.png", Alt: "Logo"},
		{Src: "cover.jpg", Alt: "Cover"},
		{Src: "signing.jpg", Alt: "Signing"},
	}, sum.Media)
}

func TestExtractSummary_MediaDedupAndOrder(t *testing.T) {
	html := `<img src="a.png" alt="A"><img alt="B" src="b.png"><img src="a.png" alt="A2">`

	sum := ExtractSummary(html)

	assert.Equal(t, []Media{
		{Src: "a.png", Alt: "A"},
		{Src: "b.png", Alt: "B"},
	}, sum.Media)
}

func TestExtractSummary_TitleFallbackChain(t *testing.T) {
	t.Run("h1 in content block wins", func(t *testing.T) {
		html := `<title>Doc</title><h1>Bare</h1><td class="mcnTextContent"><h1>Block</h1></td>`
		assert.Equal(t, "Block", ExtractSummary(html).Title)
	})

	t.Run("bare h1 beats document title", func(t *testing.T) {
		html := `<title>Doc</title><h1>Bare</h1>`
		assert.Equal(t, "Bare", ExtractSummary(html).Title)
	})

	t.Run("document title as last resort", func(t *testing.T) {
		html := `<title>Foo</title><p>text</p>`
		assert.Equal(t, "Foo", ExtractSummary(html).Title)
	})

	t.Run("no signal yields empty", func(t *testing.T) {
		assert.Equal(t, "", ExtractSummary(`<p>just text</p>`).Title)
	})
}

func TestExtractSummary_EmptyInput(t *testing.T) {
	sum := ExtractSummary("")

	assert.Equal(t, "", sum.Title)
	assert.Equal(t, "", sum.Excerpt)
	assert.Empty(t, sum.Media)
}

func TestExtractSummary_FallbackBodyStripsTemplateRegions(t *testing.T) {
	html := `<html><head><style>x</style></head><body>` +
		`<!-- templateHeader --><p>header</p><!-- /templateHeader -->` +
		`<p>The actual note.</p>` +
		`<!-- canspamBarWrapper --><p>address</p><!-- /canspamBarWrapper -->` +
		`</body></html>`

	sum := ExtractSummary(html)

	// No content block: the excerpt falls back to the remaining body
	// with tags retained.
	assert.Equal(t, "<p>The actual note.</p>", sum.Excerpt)
}

func TestTextBlocks(t *testing.T) {
	html := `<td class="mcnTextContent"><h2>One</h2></td>` +
		`<td class="other">skip</td>` +
		`<td valign="top" class="x mcnTextContent y">Two</td>`

	blocks := TextBlocks(html)

	assert.Equal(t, []string{"<h2>One</h2>", "Two"}, blocks)
}

func TestStripTags(t *testing.T) {
	// Entities decode before tags strip, so angle brackets that arrive
	// encoded form a "tag" and are removed along with real markup.
	assert.Equal(t, `He said "hi" & left`,
		StripTags(`<p>He said &quot;hi&quot; &amp; left &lt;now&gt;</p>`))
	assert.Equal(t, "", StripTags("<p>   </p>"))
}
