package page

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/d1nch8g/quizvoice/update"
)

const (
	attrAudioHash = "data-audio-hash"
	attrSwapOOB   = "hx-swap-oob"

	classFeedback    = "feedback"
	classAnswerInput = "answer-input"
)

// ParseSwaps splits a fragment response into swaps. Top-level elements
// marked hx-swap-oob replace the region named by their id; everything else
// replaces target.
func ParseSwaps(body io.Reader, target string) ([]update.Event, error) {
	nodes, err := html.ParseFragment(body, &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return nil, err
	}

	var main []*html.Node
	var oob []update.Event
	for _, n := range nodes {
		if n.Type == html.ElementNode && hasAttr(n, attrSwapOOB) {
			id := attr(n, "id")
			if id == "" {
				continue
			}
			oob = append(oob, update.Event{Target: id, Fragment: fragmentOf(firstElement(n.FirstChild))})
			continue
		}
		main = append(main, n)
	}

	var first *html.Node
	for _, n := range main {
		if n.Type == html.ElementNode {
			first = n
			break
		}
	}

	events := make([]update.Event, 0, len(oob)+1)
	events = append(events, update.Event{Target: target, Fragment: fragmentOf(first)})
	return append(events, oob...), nil
}

func fragmentOf(n *html.Node) *update.Fragment {
	if n == nil {
		return nil
	}
	frag := &update.Fragment{
		AudioID:     attr(n, attrAudioHash),
		AnswerField: find(n, func(c *html.Node) bool { return hasClass(c, classAnswerInput) }) != nil,
		Text:        text(n),
	}
	if hasClass(n, classFeedback) {
		frag.Kind = update.KindFeedback
	}
	return frag
}

func firstElement(n *html.Node) *html.Node {
	for ; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return n
		}
	}
	return nil
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// text returns the visible text under n with runs of whitespace collapsed.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style || n.DataAtom == atom.Audio {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
