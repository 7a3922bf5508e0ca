// Package channel connects messaging transports to the pipeline.
//
// An Adapter owns one transport: it normalizes whatever the transport
// delivers (Slack event callbacks, Bot Framework activities, Twilio
// webhooks, plain JSON) into a channel-agnostic Inbound message, and it
// delivers reply text back out. Adapters validate their credentials at
// construction so a misconfigured channel fails at startup, not on the
// first message.
package channel
