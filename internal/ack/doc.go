// Package ack assembles and signs ACK messages: the review acknowledgement
// a reviewer posts on a pull request, naming the exact commit tested and
// carrying a GPG clearsignature over the message body.
package ack
