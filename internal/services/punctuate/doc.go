// Package punctuate restores punctuation and capitalization to flat caption
// transcripts through an OpenAI-compatible chat completion endpoint. Sentence
// segmentation downstream splits on the punctuation this package reinstates,
// so the client insists the model preserve the word sequence exactly.
package punctuate
