// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package seed loads the initial election state from a TOML dataset.

The demo dataset is embedded and returned by Default. Load reads another
file in the same format. Apply replaces the election, posts, voters,
candidates and results of a store with the dataset.
*/
package seed
