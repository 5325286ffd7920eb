package slack

// BuildIdeaBlocks exposes buildIdeaBlocks for testing
var BuildIdeaBlocks = buildIdeaBlocks
