// Command docshelf watches a directory for new documents and files them into
// an organized library under content-derived names.
package main
