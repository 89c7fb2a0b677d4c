//go:build tinygo && !pic24fj64gb002 && !dspic33fj256gp710

package main

import "pic24io/targets/chips"

var chip = chips.PIC24HJ32GP202
