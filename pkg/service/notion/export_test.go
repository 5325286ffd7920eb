package notion

// Truncate exposes truncate for testing
var Truncate = truncate
