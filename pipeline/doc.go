// Package pipeline wires the conversational building blocks into a
// single turn processor.
//
// A Pipeline takes an inbound utterance through gating (rate limiting,
// safety screening), intent classification, entity extraction and
// per-user context tracking, then dispatches the turn to the handler
// registered for the winning intent. Session memory and long-term
// recording happen off the hot path: sink writes run on their own
// goroutines and never delay or fail a turn.
//
// Example:
//
//	p := pipeline.New()
//
//	for name, h := range handler.Defaults() {
//		p.RegisterHandler(name, h)
//	}
//
//	result, err := p.Process(ctx, "Hello there!", "user-1")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Println(result.Reply.Text)
package pipeline
