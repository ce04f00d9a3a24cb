package chunk_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/BrianJenney/brian-clone/pkg/service/chunk"
)

func TestSplitShortInput(t *testing.T) {
	text := "This is a short document. It fits in one chunk."

	chunks := chunk.Split(text, 1000)

	gt.Array(t, chunks).Length(1)
	gt.Value(t, chunks[0].Text).Equal(text)
	gt.Value(t, chunks[0].Index).Equal(0)
	gt.Value(t, chunks[0].Total).Equal(1)
}

func TestSplitExactThreshold(t *testing.T) {
	text := strings.Repeat("a", 1000)

	chunks := chunk.Split(text, 1000)

	gt.Array(t, chunks).Length(1)
	gt.Value(t, chunks[0].Text).Equal(text)
}

func TestSplitLongInput(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("This sentence pads the document well past the threshold. ")
	}
	text := sb.String()

	chunks := chunk.Split(text, 300)

	gt.Value(t, len(chunks) > 1).Equal(true)
	for i, ch := range chunks {
		gt.Value(t, ch.Index).Equal(i)
		gt.Value(t, ch.Total).Equal(len(chunks))
		gt.Value(t, len(ch.Text) <= 300+len("This sentence pads the document well past the threshold. ")).Equal(true)
	}
}

func TestSplitOneSentenceOverlap(t *testing.T) {
	text := "First sentence here. Second sentence follows. Third one now. Fourth sentence ends it."

	chunks := chunk.Split(text, 45)

	gt.Value(t, len(chunks) > 1).Equal(true)

	sentences := []string{
		"First sentence here. ",
		"Second sentence follows. ",
		"Third one now. ",
		"Fourth sentence ends it.",
	}

	// Each chunk after the first starts with the last sentence of its
	// predecessor
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Text
		var lastSentence string
		for _, s := range sentences {
			if strings.HasSuffix(prev, s) {
				lastSentence = s
			}
		}
		gt.Value(t, lastSentence != "").Equal(true)
		gt.Value(t, strings.HasPrefix(chunks[i].Text, lastSentence)).Equal(true)
	}

	// Concatenation minus the duplicated overlap reproduces the input
	reconstructed := chunks[0].Text
	for i := 1; i < len(chunks); i++ {
		var overlap string
		for _, s := range sentences {
			if strings.HasPrefix(chunks[i].Text, s) && strings.HasSuffix(chunks[i-1].Text, s) {
				overlap = s
			}
		}
		reconstructed += strings.TrimPrefix(chunks[i].Text, overlap)
	}
	gt.Value(t, reconstructed).Equal(text)
}

func TestSplitNoTerminators(t *testing.T) {
	// A single run-on sentence cannot be split further
	text := strings.Repeat("word ", 100)

	chunks := chunk.Split(text, 100)

	gt.Array(t, chunks).Length(1)
	gt.Value(t, chunks[0].Text).Equal(text)
}
