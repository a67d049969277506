// Package csvsave reads and writes sample results as delimited text.
//
// Which columns a file holds is described by a SaveConfig. Column order
// is fixed by a single catalog shared by the encoder, the decoder and the
// header generator:
//
//	timeStamp elapsed label responseCode responseMessage threadName
//	dataType success failureMessage bytes grpThreads allThreads URL
//	Filename Latency Encoding SampleCount ErrorCount Hostname
//
// A file may start with a header line naming its columns. Sniff turns
// such a line back into a SaveConfig, inferring a single-character
// delimiter if the expected one does not split it. Files without a
// header are read with a default config supplied by the caller.
//
// Values are never quoted. A value containing the delimiter will not
// read back correctly.
package csvsave
