package bulletin

import "testing"

const sampleText = `DGMS SANKET BULLETIN 2015

Date - 16-05-2015 Mine - Ledo OCP Time - 10:30 AM Owner - Coal India Ltd. Dist. - Tinsukia, State - Assam
Person(s) Killed : 2
While the workmen were engaged in drilling near the face, a large mass
of overhanging coal collapsed on them. Had the overhangs been properly
dressed before deployment, the accident could have been averted.

date - 03/11/15 Mine - Jharia Colliery Time - 4:15 PM Owner - BCCL Dist. - Dhanbad, State - Jharkhand
Person(s) Killed : 1
While a dumper was reversing at the tip, it ran over a helper standing
behind it. Had an audio-visual alarm been provided and the reversing
area fenced, the accident could have been averted.
`

func TestSegment(t *testing.T) {
	blocks := Segment(sampleText)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	for i, b := range blocks {
		if len(b) == 0 {
			t.Errorf("block %d is empty", i)
		}
	}

	// Second block starts lowercase; matching is case-insensitive.
	if blocks[1][:4] != "date" {
		t.Errorf("expected second block to keep original casing, got %q", blocks[1][:4])
	}
}

func TestSegment_NoBlocks(t *testing.T) {
	for _, text := range []string{"", "no accident entries here", "Date - began but never closed"} {
		blocks := Segment(text)
		if len(blocks) != 0 {
			t.Errorf("Segment(%q): expected 0 blocks, got %d", text, len(blocks))
		}
	}
}

func TestSegment_NonGreedy(t *testing.T) {
	// Two entries must not merge into one span.
	blocks := Segment(sampleText)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	for i, b := range blocks {
		if got := countOccurrences(b, "averted."); got != 1 {
			t.Errorf("block %d: expected exactly one terminator, got %d", i, got)
		}
	}
}

func countOccurrences(s, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
		}
	}
	return count
}
