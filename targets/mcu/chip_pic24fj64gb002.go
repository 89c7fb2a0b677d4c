//go:build tinygo && pic24fj64gb002

package main

import "pic24io/targets/chips"

var chip = chips.PIC24FJ64GB002
