package dom

import (
	"strings"
	"testing"
)

func TestRenderEscapesAndSelfCloses(t *testing.T) {
	n := El("svg").Attr("width", 460).Append(
		El("circle").Attr("r", 5.0).Class("film-point", "positive"),
		El("text").SetText(`Alien & "Aliens" <1986>`),
		El("div"),
	)
	got := n.String()
	want := `<svg width="460"><circle r="5" class="film-point positive"/><text>Alien &amp; &#34;Aliens&#34; &lt;1986&gt;</text><div></div></svg>`
	if got != want {
		t.Fatalf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestAttrReplacesAndQueries(t *testing.T) {
	n := El("rect").Attr("x", 1).Attr("x", 2.5)
	if v, _ := n.Get("x"); v != "2.5" {
		t.Fatalf("Get(x) = %q; want 2.5", v)
	}
	root := El("g").Append(n, El("rect").Class("bar"), nil)
	if len(root.Children()) != 2 {
		t.Fatalf("Append kept nil child")
	}
	if len(root.ByClass("bar")) != 1 || len(root.ByTag("rect")) != 2 {
		t.Fatalf("queries returned wrong counts")
	}
	root.Clear()
	if len(root.Children()) != 0 {
		t.Fatalf("Clear left children")
	}
}

func TestNum(t *testing.T) {
	cases := map[float64]string{
		0:        "0",
		100:      "100",
		2.5:      "2.5",
		1.234567: "1.23",
		-0.001:   "0",
		-12.10:   "-12.1",
	}
	for in, want := range cases {
		if got := Num(in); got != want {
			t.Fatalf("Num(%v) = %q; want %q", in, got, want)
		}
	}
}

func TestRunsNeverBridgeGaps(t *testing.T) {
	defined := []bool{true, true, false, true, false, false, true, true, true}
	runs := Runs(len(defined), func(i int) bool { return defined[i] })
	want := [][]int{{0, 1}, {3}, {6, 7, 8}}
	if len(runs) != len(want) {
		t.Fatalf("Runs() = %v; want %v", runs, want)
	}
	for i := range want {
		if len(runs[i]) != len(want[i]) || runs[i][0] != want[i][0] {
			t.Fatalf("Runs()[%d] = %v; want %v", i, runs[i], want[i])
		}
	}
}

func TestCatmullRomPath(t *testing.T) {
	if got := CatmullRomPath([]Point{{1, 1}}); got != "" {
		t.Fatalf("single point path = %q; want empty", got)
	}
	if got := CatmullRomPath([]Point{{0, 0}, {10, 10}}); got != "M0,0L10,10" {
		t.Fatalf("two point path = %q", got)
	}

	got := CatmullRomPath([]Point{{0, 0}, {10, 10}, {20, 0}, {30, 10}})
	if !strings.HasPrefix(got, "M0,0C") {
		t.Fatalf("path = %q; want to start with a move and a curve", got)
	}
	if c := strings.Count(got, "C"); c != 3 {
		t.Fatalf("path has %d curve segments; want 3: %q", c, got)
	}
	if !strings.HasSuffix(got, ",30,10") {
		t.Fatalf("path = %q; want to end at the last point", got)
	}

	// Coincident points must not produce NaN coordinates.
	dup := CatmullRomPath([]Point{{0, 0}, {0, 0}, {5, 5}, {5, 5}})
	if strings.Contains(dup, "NaN") || strings.Contains(dup, "Inf") {
		t.Fatalf("degenerate path = %q", dup)
	}
}

func TestClosedPath(t *testing.T) {
	if got := ClosedPath([]Point{{0, 0}, {1, 0}, {1, 1}}); got != "M0,0L1,0L1,1Z" {
		t.Fatalf("ClosedPath() = %q", got)
	}
	if ClosedPath(nil) != "" {
		t.Fatalf("ClosedPath(nil) not empty")
	}
}
