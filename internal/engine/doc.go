// Package engine orchestrates query engine calls.
//
// Every operation follows the same sequence:
//
//  1. Resolve the engine binary (explicit path, or install dir + platform).
//  2. Stage the payload in a uniquely named temp file.
//  3. Run the engine with the staged path in PRISMA_DML_PATH and/or its
//     arguments, RUST_BACKTRACE=1 and the caller's environment.
//  4. Retry the whole attempt on transient hazards: the "please wait"
//     readiness banner (5s backoff) and ETXTBSY launch races (500ms backoff).
//  5. Remove the staged file, then decode stdout into the requested shape.
//
// Failures are classified into the types of the internal errors package and
// always carry the operation's label ("Get DMMF", "Schema parsing",
// "Get config", "DMMF To DML").
package engine
