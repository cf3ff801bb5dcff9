/*
Package corpus supplies training text to the markov package.

It fetches a remote HTML document and pulls names out of the elements
matching a simple descendant selector, reads plain word lists from disk,
normalizes entries to lowercase alphabetic strings, and caches fetched
corpora in SQLite so repeated runs do not refetch them. An Index of known
entries lets callers discard generated words that merely reproduce the
corpus.
*/
package corpus
