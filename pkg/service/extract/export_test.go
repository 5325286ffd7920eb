package extract

var Normalize = normalize

const MaxContentLength = maxContentLength
