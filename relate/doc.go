// Package relate derives a weighted relationship graph over a document's
// chunks. Edges are typed: sequential order, topic continuation, speaker
// continuation, and shared entity references. Pairwise comparisons are
// driven by inverted indexes so only chunks sharing at least one topic
// token, speaker, or entity are ever compared.
package relate
