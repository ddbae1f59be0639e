package normalize

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parse(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func render(t *testing.T, doc *goquery.Document) string {
	t.Helper()
	out, err := doc.Html()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func TestClean_RemovesNoiseNodes(t *testing.T) {
	doc := parse(t, `<body><script>x()</script><nav>menu</nav><p>keep <img src="x.png"/>me</p></body>`)
	Clean(doc)
	out := render(t, doc)

	for _, gone := range []string{"<script", "<nav", "<img", "x()", "menu"} {
		if strings.Contains(out, gone) {
			t.Errorf("expected %q to be removed, output: %s", gone, out)
		}
	}
	if !strings.Contains(out, "keep") || !strings.Contains(out, "me") {
		t.Errorf("expected content text to survive, output: %s", out)
	}
}

func TestClean_RemovesBySelector(t *testing.T) {
	doc := parse(t, `<body><p>def</p><ul><li class="toclevel-1">toc entry</li></ul>` +
		`<p><a class="mw-editsection" href="/edit">edit</a>text</p></body>`)
	Clean(doc)
	out := render(t, doc)

	if strings.Contains(out, "toc entry") {
		t.Errorf("expected toclevel item removed, output: %s", out)
	}
	if strings.Contains(out, "edit</a>") {
		t.Errorf("expected edit affordance removed, output: %s", out)
	}
	if !strings.Contains(out, "text") {
		t.Errorf("expected sibling text kept, output: %s", out)
	}
}

func TestClean_UnwrapsWrappers(t *testing.T) {
	doc := parse(t, `<body><p>based on <b><span><em><span>Cubics</span></em></span></b>, not on <span>theories</span>.</p></body>`)
	Clean(doc)
	out := render(t, doc)

	if strings.Contains(out, "<span") || strings.Contains(out, "<b>") {
		t.Errorf("expected span/b unwrapped, output: %s", out)
	}
	if !strings.Contains(out, "<em>Cubics</em>") {
		t.Errorf("expected inner em kept with its text, output: %s", out)
	}
	if !strings.Contains(out, "theories") {
		t.Errorf("expected unwrapped text kept, output: %s", out)
	}
}

func TestClean_NestedWrappersResolveInOrder(t *testing.T) {
	doc := parse(t, `<body><div><div><div><p>deep</p></div></div></div></body>`)
	Clean(doc)
	out := render(t, doc)

	if strings.Contains(out, "<div") {
		t.Errorf("expected all divs unwrapped, output: %s", out)
	}
	if !strings.Contains(out, "<p>deep</p>") {
		t.Errorf("expected p to survive unwrapping, output: %s", out)
	}
}

func TestClean_StripsComments(t *testing.T) {
	doc := parse(t, `<body><p>a<!-- hidden -->b</p></body>`)
	Clean(doc)
	out := render(t, doc)

	if strings.Contains(out, "hidden") {
		t.Errorf("expected comment removed, output: %s", out)
	}
	if !strings.Contains(out, "a") || !strings.Contains(out, "b") {
		t.Errorf("expected surrounding text kept, output: %s", out)
	}
}

func TestClean_DropsEmptyElements(t *testing.T) {
	doc := parse(t, `<body><p></p><ul><li>   </li><li>entry</li></ul></body>`)
	Clean(doc)
	out := render(t, doc)

	if strings.Contains(out, "<p>") {
		t.Errorf("expected empty p removed, output: %s", out)
	}
	if c := strings.Count(out, "<li>"); c != 1 {
		t.Errorf("expected exactly one li to survive, got %d in: %s", c, out)
	}
}

func TestCleanExempt_KeepsExemptedEmptyElements(t *testing.T) {
	doc := parse(t, `<body><p>x</p><br/><hr/></body>`)
	CleanExempt(doc, map[string]bool{"br": true})
	out := render(t, doc)

	if !strings.Contains(out, "<br/>") {
		t.Errorf("expected exempted br kept, output: %s", out)
	}
	if strings.Contains(out, "<hr") {
		t.Errorf("expected hr removed (denylist), output: %s", out)
	}
}

func TestClean_Idempotent(t *testing.T) {
	raw := `<body><div><h2>English</h2><!-- c --><span>noise</span>` +
		`<ol><li>a <a href="/wiki/b">b</a></li></ol><p></p></div></body>`

	doc := parse(t, raw)
	Clean(doc)
	once := render(t, doc)

	doc2 := parse(t, once)
	Clean(doc2)
	twice := render(t, doc2)

	if once != twice {
		t.Errorf("cleaning is not idempotent:\nfirst:  %s\nsecond: %s", once, twice)
	}
}
