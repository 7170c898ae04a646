/*
Package textfeat converts raw documents into sequences of word vectors.

A Pipeline applies text filters, splits the result into tokens and embeds
every token as one row of a matrix:
	vecs, err := textfeat.LoadGlove("glove.6B.300d.txt.zst")
	if err != nil {
		log.Fatal(err)
	}
	phi := &textfeat.Pipeline{
		Filters:  []textfeat.Filter{textfeat.RemoveLines{}},
		Embedder: vecs,
	}
	batch, err := phi.Transform(text)

The output of a Transform is a batch so that transforms can be composed
with code that processes several documents at once.
For a single document the batch has one element.

When no word vectors are available, Hashed gives every token a
deterministic pseudo-random vector.
*/
package textfeat
