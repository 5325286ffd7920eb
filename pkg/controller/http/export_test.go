package http

var RespondJSON = respondJSON
