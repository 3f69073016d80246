package pipeline

import "testing"

func TestDetectQuoteRequestPositive(t *testing.T) {
	text := "B15 base cabinet\nSB33 sink base\nW3012 wall cabinet"
	res := DetectQuoteRequest("Quote request for kitchen remodel", text, "", nil)
	if !res.IsQuoteRequest || res.Reason != "rules_positive" {
		t.Fatalf("got %+v", res)
	}
}

func TestDetectQuoteRequestNegative(t *testing.T) {
	res := DetectQuoteRequest("Meeting tomorrow", "see you at noon", "", nil)
	if res.IsQuoteRequest || res.Score != 0 || res.Reason != "rules_negative" {
		t.Fatalf("got %+v", res)
	}
}

func TestDetectQuoteRequestAttachmentAloneInsufficient(t *testing.T) {
	res := DetectQuoteRequest("", "", "", []string{"floor_plan.pdf"})
	if res.IsQuoteRequest {
		t.Fatalf("got %+v", res)
	}
	if res.Score != 0.25 {
		t.Fatalf("score=%v", res.Score)
	}
}

func TestDetectQuoteRequestAttachmentCountedOnce(t *testing.T) {
	one := DetectQuoteRequest("", "", "", []string{"plan.pdf"})
	three := DetectQuoteRequest("", "", "", []string{"plan.pdf", "plan2.xlsx", "rev.dwg"})
	if one.Score != three.Score {
		t.Fatalf("one=%v three=%v", one.Score, three.Score)
	}
}

func TestDetectQuoteRequestHTMLTable(t *testing.T) {
	res := DetectQuoteRequest("quote", "", "<table><tr><td>B15</td></tr></table>", nil)
	if !res.IsQuoteRequest {
		t.Fatalf("got %+v", res)
	}
}

func TestDetectQuoteRequestScoreCapped(t *testing.T) {
	text := "quote pricing estimate bid proposal cabinet kitchen plans schedule qty\nB15 x\nSB33 x"
	res := DetectQuoteRequest(text, text, "<table>", []string{"plan.pdf"})
	if res.Score != 1 {
		t.Fatalf("score=%v", res.Score)
	}
}
