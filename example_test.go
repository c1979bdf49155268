package murmur_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/murmur"
	"github.com/aretw0/murmur/pkg/adapters/memory"
	"github.com/aretw0/murmur/pkg/core"
)

// Example_basic saves a typed note and finds it again.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "murmur-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	b, err := murmur.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	b.OnBufferEdited("Buy milk")
	if err := b.OnSaveRequested(ctx); err != nil {
		log.Fatal(err)
	}

	fmt.Println(len(b.OnQueryChanged("MILK")))
	fmt.Println(len(b.OnQueryChanged("bread")))
	// Output:
	// 1
	// 0
}

// Example_dictation drives a scripted transcription provider.
func Example_dictation() {
	provider := memory.NewProvider()
	sink := core.NewChannelSink(0)

	b, err := murmur.New("",
		murmur.WithAdapter(murmur.AdapterMemory),
		murmur.WithProvider(provider),
		murmur.WithSink(sink),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := b.OnModeChosen(ctx, core.InputDictate); err != nil {
		log.Fatal(err)
	}
	stream := <-provider.Opened()
	stream.Partial("call mo")
	stream.Partial("call mom")

	for {
		e, err := sink.Next(ctx)
		if err != nil {
			log.Fatal(err)
		}
		if e.Type == core.EventBufferChanged && e.Text == "call mom" {
			break
		}
	}

	if err := b.OnDictationStopRequested(); err != nil {
		log.Fatal(err)
	}
	if err := b.OnSaveRequested(ctx); err != nil {
		log.Fatal(err)
	}

	fmt.Println(b.Notes()[0].Content)
	// Output:
	// call mom
}
