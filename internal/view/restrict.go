// Package view shapes rendered pages for the caller's role: it hides role-gated
// regions and builds the navigation sidebar.
package view

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/guard"
	"golang.org/x/net/html"
)

// RoleAttr tags an element with the least role allowed to see it.
const RoleAttr = "data-role"

// Restrict hides every element whose data-role ranks above role.
// Applying it again to its own output changes nothing.
func Restrict(doc []byte, role guard.Role) ([]byte, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	hideTagged(root, role)

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

func hideTagged(n *html.Node, role guard.Role) {
	if n.Type == html.ElementNode {
		if required, ok := attr(n, RoleAttr); ok {
			if !role.Covers(guard.Role(strings.ToLower(strings.TrimSpace(required)))) {
				hide(n)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		hideTagged(c, role)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hide(n *html.Node) {
	for i, a := range n.Attr {
		if a.Key != "style" {
			continue
		}
		if hidden(a.Val) {
			return
		}
		style := strings.TrimSpace(a.Val)
		if style != "" && !strings.HasSuffix(style, ";") {
			style += ";"
		}
		n.Attr[i].Val = style + "display:none"
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: "display:none"})
}

func hidden(style string) bool {
	compact := strings.ReplaceAll(strings.ToLower(style), " ", "")
	return strings.Contains(compact, "display:none")
}
