package types

// Version is the canonical project version.
// The CLI and the seed_completed event share this version.
const Version = "0.3.0"

// EventContractVersion is the version stamped on seed_completed events.
// Kept in lockstep with Version.
const EventContractVersion = Version
