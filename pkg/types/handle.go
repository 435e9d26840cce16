package types

// Handle identifies an open-file session. Each handle carries its own seek
// cursor, even when several handles refer to the same descriptor.
type Handle int

const HandleNil Handle = -1
