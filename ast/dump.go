package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders n as an indented, human-readable tree, the form the CLI's
// --ast debug flag prints. It exists purely for debugging output and is
// never on the matching path.
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	if n == nil {
		b.WriteString("<nil>\n")
		return
	}
	switch v := n.(type) {
	case *Literal:
		fmt.Fprintf(b, "Literal %s\n", quoteByte(v.B))
	case *AnyByte:
		b.WriteString("AnyByte\n")
	case *OneOf:
		fmt.Fprintf(b, "OneOf %s\n", quoteBytes(v.Set.Bytes()))
	case *Range:
		fmt.Fprintf(b, "Range %s-%s\n", quoteByte(v.Lo), quoteByte(v.Hi))
	case *Not:
		b.WriteString("Not\n")
		dump(b, v.Child, depth+1)
	case *Concat:
		fmt.Fprintf(b, "Concat (%d)\n", len(v.Nodes))
		for _, c := range v.Nodes {
			dump(b, c, depth+1)
		}
	case *Alt:
		b.WriteString("Alt\n")
		dump(b, v.L, depth+1)
		dump(b, v.R, depth+1)
	case *Optional:
		b.WriteString("Optional\n")
		dump(b, v.Child, depth+1)
	case *Repeat:
		max := "unbounded"
		if v.Max != Unbounded {
			max = strconv.Itoa(v.Max)
		}
		fmt.Fprintf(b, "Repeat {%d,%s}\n", v.Min, max)
		dump(b, v.Child, depth+1)
	case *AnchorStart:
		b.WriteString("AnchorStart\n")
	case *AnchorEnd:
		b.WriteString("AnchorEnd\n")
	default:
		fmt.Fprintf(b, "%T\n", v)
	}
}

func quoteByte(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return strconv.QuoteRune(rune(b))
	}
	return fmt.Sprintf("0x%02x", b)
}

func quoteBytes(bs []byte) string {
	parts := make([]string, len(bs))
	for i, b := range bs {
		parts[i] = quoteByte(b)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
